package vaire

import (
	"image"
	"image/color"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/esimov/vaire/utils"
)

var (
	maxScreenX float32 = 1280
	maxScreenY float32 = 720
)

// Gui is the basic struct containing all of the information needed for the
// preview window. It receives the carved frames transferred through a
// channel from the carve stage, which runs in a separate goroutine.
type Gui struct {
	cfg struct {
		window struct {
			width  float32
			height float32
			title  string
		}
		seamColor color.NRGBA
	}
	process struct {
		isDone bool
		img    *image.NRGBA
	}
	proc   *Processor
	worker <-chan previewFrame
	theme  *material.Theme
	ctx    layout.Context
}

// newGui initializes the Gio interface.
func newGui(width, height int, p *Processor) *Gui {
	gui := &Gui{
		ctx: layout.Context{
			Ops: new(op.Ops),
			Constraints: layout.Constraints{
				Max: image.Pt(width, height),
			},
		},
		proc:  p,
		theme: material.NewTheme(),
	}

	gui.theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	gui.theme.TextSize = unit.Sp(16)

	gui.cfg.window.width, gui.cfg.window.height = float32(width), float32(height)
	if r := getRatio(gui.cfg.window.width, gui.cfg.window.height); r < 1 {
		gui.cfg.window.width *= r
		gui.cfg.window.height *= r
	}
	gui.cfg.window.title = "Carving process..."

	seamColor := p.SeamColor
	if len(seamColor) == 0 {
		seamColor = "#ff0000"
	}
	gui.cfg.seamColor = utils.HexToRGBA(seamColor)

	return gui
}

// Run is the core method of the Gio GUI application. This updates the window
// with the carved frames received from the carve stage and returns when the
// window is closed. Once the carving completes the window keeps showing the
// last frame under a "Done!" title. Closing the window does not abort the
// carving, it only disables the preview.
func (g *Gui) Run() error {
	width := unit.Dp(g.cfg.window.width)
	height := unit.Dp(g.cfg.window.height)

	w := new(app.Window)
	w.Option(
		app.Title(g.cfg.window.title),
		app.Size(width, height),
		app.MinSize(width, height),
		app.MaxSize(width, height),
	)

	// Center the window.
	w.Perform(system.ActionCenter)

	for {
		select {
		case res, ok := <-g.worker:
			if !ok {
				// A closed channel always wins the select, park it.
				g.worker = nil
				g.process.isDone = true
				w.Option(app.Title("Done!"))
				w.Invalidate()
				break
			}
			g.process.img = res.img
			if g.proc.Debug && res.seam != nil {
				g.overlaySeam(res.img, res.seam)
			}
			w.Invalidate()
		default:
			switch e := w.Event().(type) {
			case app.FrameEvent:
				g.ctx = app.NewContext(g.ctx.Ops, e)

				for {
					event, ok := g.ctx.Event(key.Filter{
						Name: key.NameEscape,
					})
					if !ok {
						break
					}
					if event, ok := event.(key.Event); ok && event.Name == key.NameEscape {
						w.Perform(system.ActionClose)
						return nil
					}
				}

				g.draw()
				e.Frame(g.ctx.Ops)
			case app.DestroyEvent:
				return e.Err
			}
		}
	}
}

// draw paints the last received frame into the window.
func (g *Gui) draw() {
	g.ctx.Execute(op.InvalidateCmd{})

	paint.Fill(g.ctx.Ops, color.NRGBA{A: 0xff})

	if g.process.img == nil {
		return
	}

	src := paint.NewImageOp(g.process.img)
	src.Add(g.ctx.Ops)

	layout.UniformInset(unit.Dp(0)).Layout(g.ctx,
		func(gtx layout.Context) layout.Dimensions {
			widget.Image{
				Src:   src,
				Scale: 1 / float32(unit.Dp(1)),
				Fit:   widget.Contain,
			}.Layout(gtx)
			return layout.Dimensions{Size: gtx.Constraints.Max}
		})
}

// overlaySeam marks the removed seam on the preview frame. The seam columns
// refer to the frame before the removal, so the mark is clamped against the
// narrowed width.
func (g *Gui) overlaySeam(img *image.NRGBA, seam []int) {
	dx := img.Bounds().Dx()
	for y, x := range seam {
		if x >= dx {
			x = dx - 1
		}
		img.SetNRGBA(x, y, g.cfg.seamColor)
	}
}

// getRatio returns the scale factor keeping the window inside the maximum
// screen area while preserving the frame aspect ratio.
func getRatio(w, h float32) float32 {
	var r float32 = 1
	if w > maxScreenX || h > maxScreenY {
		wr := maxScreenX / w
		hr := maxScreenY / h

		r = utils.Min(wr, hr)
	}
	return r
}
