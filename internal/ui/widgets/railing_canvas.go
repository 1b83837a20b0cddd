package widgets

import (
	"image/color"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/render"
)

var (
	colorBackdrop = color.NRGBA{R: 245, G: 245, B: 240, A: 255}
	colorGround   = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	colorEdge     = color.NRGBA{R: 40, G: 40, B: 40, A: 160}
)

const canvasPadding float32 = 16

// RailingCanvas draws a front elevation of the railing primitives.
// It is the render backend of the editor scene; Create, Release and Commit
// must be called on the UI goroutine.
type RailingCanvas struct {
	widget.BaseWidget
	items   []*railItem
	bounds  r3.Box
	minSize fyne.Size
}

type railItem struct {
	prim model.Primitive
	rect *canvas.Rectangle
	live bool
}

// Release drops the item from the next commit.
func (it *railItem) Release() {
	it.live = false
}

// NewRailingCanvas creates an empty railing canvas.
func NewRailingCanvas(minW, minH float32) *RailingCanvas {
	rc := &RailingCanvas{minSize: fyne.NewSize(minW, minH)}
	rc.ExtendBaseWidget(rc)
	return rc
}

// Create implements render.Backend.
func (rc *RailingCanvas) Create(p model.Primitive) render.Resource {
	rect := canvas.NewRectangle(p.Color)
	rect.StrokeColor = colorEdge
	rect.StrokeWidth = 0.5
	it := &railItem{prim: p, rect: rect, live: true}
	rc.items = append(rc.items, it)
	return it
}

// Commit implements render.Backend. Released items are dropped and the
// remaining ones are drawn back to front.
func (rc *RailingCanvas) Commit(bounds r3.Box) {
	live := rc.items[:0]
	for _, it := range rc.items {
		if it.live {
			live = append(live, it)
		}
	}
	for i := len(live); i < len(rc.items); i++ {
		rc.items[i] = nil
	}
	rc.items = live
	sort.SliceStable(rc.items, func(i, j int) bool {
		return rc.items[i].prim.Center.Z < rc.items[j].prim.Center.Z
	})
	rc.bounds = bounds
	rc.Refresh()
}

// Len returns the number of primitives drawn.
func (rc *RailingCanvas) Len() int {
	return len(rc.items)
}

// CreateRenderer implements fyne.Widget.
func (rc *RailingCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &railingCanvasRenderer{rc: rc}
	r.background = canvas.NewRectangle(colorBackdrop)
	r.ground = canvas.NewLine(colorGround)
	r.ground.StrokeWidth = 1
	r.rebuild()
	return r
}

// Elevation maps railing millimetres onto a widget area.
type Elevation struct {
	Scale   float32
	OffsetX float32
	OffsetY float32
	bounds  r3.Box
}

// FitElevation returns the mapping that fits the X/Y extent of bounds into
// size with pad pixels on every side, centred. Y is flipped so up is up.
func FitElevation(bounds r3.Box, size fyne.Size, pad float32) Elevation {
	spanX := float32(bounds.Max.X - bounds.Min.X)
	spanY := float32(bounds.Max.Y - bounds.Min.Y)
	availW := size.Width - 2*pad
	availH := size.Height - 2*pad
	if spanX <= 0 || spanY <= 0 || availW <= 0 || availH <= 0 {
		return Elevation{Scale: 0, OffsetX: pad, OffsetY: pad, bounds: bounds}
	}

	scale := availW / spanX
	if s := availH / spanY; s < scale {
		scale = s
	}
	return Elevation{
		Scale:   scale,
		OffsetX: pad + (availW-spanX*scale)/2,
		OffsetY: pad + (availH-spanY*scale)/2,
		bounds:  bounds,
	}
}

// Rect returns the position and size of b in widget coordinates.
// Anything thinner than a pixel is drawn one pixel wide.
func (e Elevation) Rect(b r3.Box) (fyne.Position, fyne.Size) {
	x := e.OffsetX + float32(b.Min.X-e.bounds.Min.X)*e.Scale
	y := e.OffsetY + float32(e.bounds.Max.Y-b.Max.Y)*e.Scale
	w := float32(b.Max.X-b.Min.X) * e.Scale
	h := float32(b.Max.Y-b.Min.Y) * e.Scale
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return fyne.NewPos(x, y), fyne.NewSize(w, h)
}

// GroundY returns the widget Y of the model's Y=0 plane.
func (e Elevation) GroundY() float32 {
	return e.OffsetY + float32(e.bounds.Max.Y)*e.Scale
}

type railingCanvasRenderer struct {
	rc         *RailingCanvas
	background *canvas.Rectangle
	ground     *canvas.Line
	objects    []fyne.CanvasObject
}

func (r *railingCanvasRenderer) rebuild() {
	r.objects = []fyne.CanvasObject{r.background, r.ground}
	for _, it := range r.rc.items {
		r.objects = append(r.objects, it.rect)
	}
}

func (r *railingCanvasRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.background.Move(fyne.NewPos(0, 0))

	rc := r.rc
	if len(rc.items) == 0 {
		r.ground.Hide()
		return
	}

	e := FitElevation(rc.bounds, size, canvasPadding)
	gy := e.GroundY()
	r.ground.Position1 = fyne.NewPos(0, gy)
	r.ground.Position2 = fyne.NewPos(size.Width, gy)
	r.ground.Show()

	for _, it := range rc.items {
		pos, sz := e.Rect(it.prim.Bounds())
		it.rect.Move(pos)
		it.rect.Resize(sz)
	}
}

func (r *railingCanvasRenderer) MinSize() fyne.Size { return r.rc.minSize }

func (r *railingCanvasRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.rc.Size())
	canvas.Refresh(r.rc)
}

func (r *railingCanvasRenderer) Destroy()                     {}
func (r *railingCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
