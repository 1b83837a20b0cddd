package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RailCraft/internal/gcode"
)

var (
	colorPlate     = color.NRGBA{R: 170, G: 175, B: 185, A: 255} // steel
	colorHole      = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	colorToolPath  = color.NRGBA{R: 255, G: 60, B: 60, A: 200}
	colorToolTrace = color.NRGBA{R: 30, G: 120, B: 255, A: 230}
)

// PlatePreview draws a base plate blank from above with its anchor holes
// and the drill footprint, in the machine orientation of the program.
type PlatePreview struct {
	widget.BaseWidget
	plate     gcode.BasePlate
	tool      float64
	maxWidth  float32
	maxHeight float32
}

// NewPlatePreview creates a plate preview fitting within maxW x maxH.
func NewPlatePreview(plate gcode.BasePlate, tool float64, maxW, maxH float32) *PlatePreview {
	pp := &PlatePreview{plate: plate, tool: tool, maxWidth: maxW, maxHeight: maxH}
	pp.ExtendBaseWidget(pp)
	return pp
}

func (pp *PlatePreview) CreateRenderer() fyne.WidgetRenderer {
	r := &platePreviewRenderer{pp: pp}
	r.rebuild()
	return r
}

// layout returns the pixel scale and the margin around the plate.
func (pp *PlatePreview) layout() (scale, margin float32) {
	margin = 10
	w, h := float32(pp.plate.Width), float32(pp.plate.Depth)
	if w <= 0 || h <= 0 {
		return 0, margin
	}
	scale = (pp.maxWidth - 2*margin) / w
	if s := (pp.maxHeight - 2*margin) / h; s < scale {
		scale = s
	}
	if scale <= 0 {
		scale = 1
	}
	return scale, margin
}

type platePreviewRenderer struct {
	pp      *PlatePreview
	objects []fyne.CanvasObject
}

func (r *platePreviewRenderer) rebuild() {
	r.objects = nil

	plate := r.pp.plate
	scale, margin := r.pp.layout()
	if scale == 0 {
		return
	}
	plateW := float32(plate.Width) * scale
	plateH := float32(plate.Depth) * scale

	bg := canvas.NewRectangle(colorPlate)
	bg.StrokeColor = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	bg.StrokeWidth = 2
	bg.Resize(fyne.NewSize(plateW, plateH))
	bg.Move(fyne.NewPos(margin, margin))
	r.objects = append(r.objects, bg)

	// Machine Y grows up, screen Y grows down.
	toPx := func(x, y float64) (float32, float32) {
		return margin + float32(x)*scale, margin + plateH - float32(y)*scale
	}

	ox, oy := toPx(0, 0)
	var prevX, prevY = ox, oy
	for _, h := range plate.Holes {
		cx, cy := toPx(plate.Width/2+h[0], plate.Depth/2+h[1])

		path := canvas.NewLine(colorToolPath)
		path.StrokeWidth = 1
		path.Position1 = fyne.NewPos(prevX, prevY)
		path.Position2 = fyne.NewPos(cx, cy)
		r.objects = append(r.objects, path)
		prevX, prevY = cx, cy

		d := float32(plate.HoleDiameter) * scale
		hole := canvas.NewCircle(colorHole)
		hole.Resize(fyne.NewSize(d, d))
		hole.Move(fyne.NewPos(cx-d/2, cy-d/2))
		r.objects = append(r.objects, hole)

		if r.pp.tool > 0 {
			td := float32(r.pp.tool) * scale
			trace := canvas.NewCircle(color.Transparent)
			trace.StrokeColor = colorToolTrace
			trace.StrokeWidth = 1.5
			trace.Resize(fyne.NewSize(td, td))
			trace.Move(fyne.NewPos(cx-td/2, cy-td/2))
			r.objects = append(r.objects, trace)
		}
	}

	origin := canvas.NewCircle(colorToolPath)
	origin.Resize(fyne.NewSize(6, 6))
	origin.Move(fyne.NewPos(ox-3, oy-3))
	r.objects = append(r.objects, origin)
}

func (r *platePreviewRenderer) Layout(size fyne.Size)        {}
func (r *platePreviewRenderer) Refresh()                     { r.rebuild() }
func (r *platePreviewRenderer) Destroy()                     {}
func (r *platePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *platePreviewRenderer) MinSize() fyne.Size {
	scale, margin := r.pp.layout()
	if scale == 0 {
		return fyne.NewSize(100, 100)
	}
	return fyne.NewSize(float32(r.pp.plate.Width)*scale+2*margin, float32(r.pp.plate.Depth)*scale+2*margin)
}

// RenderPlatePreview creates the drilling preview panel for a base plate
// program, with the plate drawing and a summary line.
func RenderPlatePreview(plate gcode.BasePlate, g *gcode.Generator) fyne.CanvasObject {
	summary := widget.NewLabel(fmt.Sprintf(
		"Plate %.0f x %.0f x %.0f mm, %d holes of %.1f mm, drill depth %.1f mm, %d plates",
		plate.Width, plate.Depth, plate.Thickness, len(plate.Holes), plate.HoleDiameter,
		g.DrillDepth(plate), plate.Quantity,
	))
	preview := NewPlatePreview(plate, g.ToolDiameter(plate), 500, 360)
	return container.NewVBox(summary, container.NewCenter(preview))
}
