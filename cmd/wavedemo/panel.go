package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// debugPanel is the corner panel with wave controls and live counters.
type debugPanel struct {
	root   *widget.Container
	status *widget.Text
	record *widget.Text
	game   *Game
}

func newDebugPanel(g *Game) *debugPanel {
	p := &debugPanel{game: g}

	panelImg := image.NewNineSliceColor(color.NRGBA{A: 180})
	btnImg := image.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	btnHover := image.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}

	button := func(label string, fn func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) { fn() }),
		)
	}

	p.status = widget.NewText(widget.TextOpts.Text("", &face, white))
	p.record = widget.NewText(widget.TextOpts.Text("", &face, color.NRGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}))

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	panel.AddChild(p.status)
	panel.AddChild(button("Skip wave (N)", g.skipWave))
	panel.AddChild(button("Restart (R)", g.restart))
	panel.AddChild(button("Copy pool (C)", g.copyOccupancy))
	panel.AddChild(p.record)

	p.root = widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	p.root.AddChild(panel)
	return p
}

func (p *debugPanel) refresh() {
	st := p.game.arena.Status()
	p.status.Label = fmt.Sprintf("%s  alive %d/%d", st.State, st.Alive, st.MaxAlive)

	set := p.game.arena.WaveSet().Set.Name
	rec, err := p.game.records.Load(set)
	if err != nil {
		p.record.Label = "best: ?"
		return
	}
	p.record.Label = fmt.Sprintf("best: wave %d loop %d (%d runs)", rec.BestWave, rec.BestLoop, rec.Runs)
	if !p.game.records.Persistent() {
		p.record.Label += " unsaved"
	}
}
