package main

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"

	"github.com/milk9111/hordewave/arena"
	"github.com/milk9111/hordewave/common"
	"github.com/milk9111/hordewave/obj"
	"github.com/milk9111/hordewave/records"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	// pixels per world unit
	zoom = 6.0
)

type Game struct {
	arena   *arena.Arena
	records *records.Store
	ui      *ebitenui.UI
	panel   *debugPanel
	clipOK  bool
	debug   bool
	paused  bool
	frames  int
}

func NewGame(a *arena.Arena, store *records.Store, clipOK, debug bool) *Game {
	g := &Game{arena: a, records: store, clipOK: clipOK, debug: debug}
	g.panel = newDebugPanel(g)
	g.ui = &ebitenui.UI{Container: g.panel.root}
	return g
}

func (g *Game) Update() error {
	g.frames++
	g.handleKeys()

	if !g.paused {
		dt := 1.0 / float64(ebiten.TPS())
		g.arena.MovePlayer(moveInput(), dt)
		g.arena.Update(dt)
	}

	g.panel.refresh()
	g.ui.Update()
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.skipWave()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyOccupancy()
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		g.debug = !g.debug
	}
}

func moveInput() common.Vec2 {
	var d common.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		d.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		d.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		d.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		d.X++
	}
	return d
}

func (g *Game) skipWave() {
	if !g.arena.SkipWave() {
		log.Printf("nothing to skip")
	}
}

func (g *Game) restart() {
	if err := g.arena.Restart(); err != nil {
		log.Printf("restart: %v", err)
	}
}

func (g *Game) copyOccupancy() {
	data, err := g.arena.OccupancyYAML()
	if err != nil {
		log.Printf("%v", err)
		return
	}
	if !g.clipOK {
		log.Printf("occupancy:\n%s", data)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	log.Printf("occupancy copied (%d bytes)", len(data))
}

// toScreen maps world units to screen pixels with the player at the centre.
func (g *Game) toScreen(p, focus common.Vec2) (float32, float32) {
	return float32((p.X-focus.X)*zoom + baseWidth/2), float32((p.Y-focus.Y)*zoom + baseHeight/2)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x1b, G: 0x1d, B: 0x22, A: 0xff})

	player, hp, maxHP := g.arena.Player()

	b := g.arena.Bounds()
	x0, y0 := g.toScreen(b.Min, player)
	x1, y1 := g.toScreen(b.Max, player)
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, colornames.Dimgray, false)

	for _, o := range g.arena.Obstacles() {
		switch o.Shape {
		case obj.ShapeBox:
			ox, oy := g.toScreen(o.Bounds.Min, player)
			ex, ey := g.toScreen(o.Bounds.Max, player)
			vector.FillRect(screen, ox, oy, ex-ox, ey-oy, colornames.Slategray, false)
		case obj.ShapeCircle:
			cx, cy := g.toScreen(o.Center, player)
			vector.FillCircle(screen, cx, cy, float32(o.Radius*zoom), colornames.Slategray, true)
		}
	}

	for _, e := range g.arena.Enemies() {
		x, y := g.toScreen(e.Position, player)
		clr := g.enemyColor(e)
		vector.FillCircle(screen, x, y, float32(e.Radius*zoom), clr, true)
		if e.Boss {
			vector.StrokeCircle(screen, x, y, float32(e.Radius*zoom)+3, 2, colornames.Gold, true)
		}
		if g.debug && e.MaxHealth > 0 {
			w := float32(e.Radius * zoom * 2)
			frac := float32(e.Health) / float32(e.MaxHealth)
			vector.FillRect(screen, x-w/2, y-float32(e.Radius*zoom)-5, w*frac, 2, colornames.Limegreen, false)
		}
	}

	px, py := g.toScreen(player, player)
	vector.FillCircle(screen, px, py, 0.5*zoom, colornames.Skyblue, true)

	lines := g.arena.HUD().Lines()
	lines = append(lines, fmt.Sprintf("HP %d/%d", hp, maxHP))
	if g.arena.Defeated() {
		lines = append(lines, "DEFEATED - R to restart")
	}
	if g.paused {
		lines = append(lines, "PAUSED")
	}
	if g.debug {
		st := g.arena.Status()
		lines = append(lines,
			fmt.Sprintf("state %s t=%.1f budget %.2f", st.State, st.GameTime, st.Budget),
			fmt.Sprintf("spawned %d killed %d pending %d", g.arena.Spawner().TotalSpawned(), g.arena.Spawner().TotalKilled(), g.arena.Spawner().PendingReturns()),
			fmt.Sprintf("FPS %.1f frames %d", ebiten.ActualFPS(), g.frames),
		)
	}
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))

	g.ui.Draw(screen)
}

func (g *Game) enemyColor(e arena.EnemyView) color.Color {
	if e.Dying {
		return colornames.Darkgray
	}
	if spec, ok := g.arena.Archetype(e.Archetype); ok && spec.Color != nil {
		return spec.Color
	}
	return colornames.Indianred
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
