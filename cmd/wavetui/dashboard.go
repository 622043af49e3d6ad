package main

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/hordewave/arena"
	"github.com/milk9111/hordewave/obj"
)

const sidebarWidth = 34

var (
	styleText   = tcell.StyleDefault
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleWall   = tcell.StyleDefault.Foreground(tcell.ColorSlateGray)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleEnemy  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleBoss   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
	styleDying  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

type dashboard struct {
	arena  *arena.Arena
	paused bool
	status string
}

// handle reports false when the dashboard should exit.
func (d *dashboard) handle(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}
	switch key.Rune() {
	case 'q':
		return false
	case 'p':
		d.paused = !d.paused
	case 'n':
		if !d.arena.SkipWave() {
			d.status = "nothing to skip"
		}
	case 'r':
		if err := d.arena.Restart(); err != nil {
			d.status = err.Error()
		}
	case 'o':
		data, err := d.arena.OccupancyYAML()
		if err != nil {
			d.status = err.Error()
			break
		}
		log.Printf("occupancy:\n%s", data)
		d.status = "occupancy written to log"
	}
	return true
}

func (d *dashboard) draw(screen tcell.Screen) {
	screen.Clear()
	w, h := screen.Size()

	mapW := w - sidebarWidth
	if mapW > 2 && h > 2 {
		d.drawMap(screen, 0, 0, mapW, h)
	}
	d.drawSidebar(screen, max(mapW, 0), 0, min(w, sidebarWidth), h)
}

// drawMap fits the arena bounds into the given cell rectangle. Terminal
// cells are about twice as tall as wide, so y is squashed by half.
func (d *dashboard) drawMap(screen tcell.Screen, x0, y0, w, h int) {
	b := d.arena.Bounds()
	spanX := b.Max.X - b.Min.X
	spanY := b.Max.Y - b.Min.Y
	if spanX <= 0 || spanY <= 0 {
		return
	}
	scale := min(float64(w-1)/spanX, float64(h-1)*2/spanY)

	cell := func(px, py float64) (int, int, bool) {
		cx := x0 + int((px-b.Min.X)*scale)
		cy := y0 + int((py-b.Min.Y)*scale/2)
		return cx, cy, cx >= x0 && cx < x0+w && cy >= y0 && cy < y0+h
	}

	for _, o := range d.arena.Obstacles() {
		switch o.Shape {
		case obj.ShapeBox:
			ax, ay, _ := cell(o.Bounds.Min.X, o.Bounds.Min.Y)
			bx, by, _ := cell(o.Bounds.Max.X, o.Bounds.Max.Y)
			for y := ay; y <= by; y++ {
				for x := ax; x <= bx; x++ {
					screen.SetContent(x, y, '#', nil, styleWall)
				}
			}
		case obj.ShapeCircle:
			if cx, cy, ok := cell(o.Center.X, o.Center.Y); ok {
				screen.SetContent(cx, cy, 'O', nil, styleWall)
			}
		}
	}

	for _, e := range d.arena.Enemies() {
		cx, cy, ok := cell(e.Position.X, e.Position.Y)
		if !ok {
			continue
		}
		r, style := 'e', styleEnemy
		if len(e.Archetype) > 0 {
			r = rune(e.Archetype[0])
		}
		switch {
		case e.Dying:
			r, style = 'x', styleDying
		case e.Boss:
			style = styleBoss
		}
		screen.SetContent(cx, cy, r, nil, style)
	}

	pos, _, _ := d.arena.Player()
	if cx, cy, ok := cell(pos.X, pos.Y); ok {
		screen.SetContent(cx, cy, '@', nil, stylePlayer)
	}
}

func (d *dashboard) drawSidebar(screen tcell.Screen, x0, y0, w, h int) {
	y := y0
	put := func(s string, style tcell.Style) {
		if y >= y0+h {
			return
		}
		drawText(screen, x0+1, y, w-1, s, style)
		y++
	}

	put(d.arena.Name(), styleTitle)
	for _, line := range d.arena.HUD().Lines() {
		put(line, styleText)
	}
	_, hp, maxHP := d.arena.Player()
	put(fmt.Sprintf("HP %d/%d", hp, maxHP), styleText)
	if d.arena.Defeated() {
		put("DEFEATED (r restarts)", styleBoss)
	}
	y++

	st := d.arena.Status()
	put(fmt.Sprintf("state %s", st.State), styleDim)
	put(fmt.Sprintf("t %.1fs  budget %.2f", st.GameTime, st.Budget), styleDim)
	put(fmt.Sprintf("spawned %d  killed %d", d.arena.Spawner().TotalSpawned(), d.arena.Spawner().TotalKilled()), styleDim)
	put(fmt.Sprintf("pending returns %d", d.arena.Spawner().PendingReturns()), styleDim)
	y++

	for _, line := range d.arena.HUD().Log {
		put(line, styleDim)
	}
	y++
	if d.paused {
		put("PAUSED", styleTitle)
	}
	if d.status != "" {
		put(d.status, styleText)
	}
	put("n skip  r restart  p pause", styleDim)
	put("o dump pool  q quit", styleDim)
}

func drawText(screen tcell.Screen, x, y, maxW int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		if i >= maxW {
			return
		}
		screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}
