package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RailCraft/internal/engine"
	"github.com/piwi3910/RailCraft/internal/model"
)

// Piece colors, cycled per placement.
var pieceColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

const barStripHeight float32 = 28

// BarCanvas renders one stock bar as a horizontal strip with its pieces.
type BarCanvas struct {
	widget.BaseWidget
	bar      model.BarResult
	maxWidth float32
}

// NewBarCanvas creates a bar strip at most maxW pixels wide.
func NewBarCanvas(bar model.BarResult, maxW float32) *BarCanvas {
	bc := &BarCanvas{bar: bar, maxWidth: maxW}
	bc.ExtendBaseWidget(bc)
	return bc
}

func (bc *BarCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &barCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

func (bc *BarCanvas) scale() float32 {
	if bc.bar.Length <= 0 {
		return 0
	}
	return bc.maxWidth / float32(bc.bar.Length)
}

type barCanvasRenderer struct {
	bc      *BarCanvas
	objects []fyne.CanvasObject
}

func (r *barCanvasRenderer) rebuild() {
	r.objects = nil

	bar := r.bc.bar
	scale := r.bc.scale()
	barW := float32(bar.Length) * scale

	// Stock bar background
	bg := canvas.NewRectangle(color.NRGBA{R: 190, G: 190, B: 195, A: 255})
	bg.Resize(fyne.NewSize(barW, barStripHeight))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(barW, barStripHeight))
	r.objects = append(r.objects, border)

	for i, p := range bar.Placements {
		px := float32(p.Offset) * scale
		pw := float32(p.Piece.Length) * scale

		rect := canvas.NewRectangle(pieceColors[i%len(pieceColors)])
		rect.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		rect.StrokeWidth = 1
		rect.Resize(fyne.NewSize(pw, barStripHeight))
		rect.Move(fyne.NewPos(px, 0))
		r.objects = append(r.objects, rect)

		if pw > 40 {
			label := canvas.NewText(fmt.Sprintf("%s %.0f", p.Piece.Label, p.Piece.Length), color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(px+3, 7))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *barCanvasRenderer) Layout(size fyne.Size)        {}
func (r *barCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *barCanvasRenderer) Destroy()                     {}
func (r *barCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *barCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(float32(r.bc.bar.Length)*r.bc.scale(), barStripHeight)
}

// RenderCutPlan creates a scrollable container of every stock bar.
func RenderCutPlan(plan *model.CutPlan) fyne.CanvasObject {
	if plan == nil || (len(plan.Bars) == 0 && len(plan.Unplaced) == 0) {
		return widget.NewLabel("No cut plan yet. Calculate a quote first.")
	}

	var items []fyne.CanvasObject
	for i, bar := range plan.Bars {
		header := widget.NewLabel(fmt.Sprintf(
			"Bar %d: %s (%.0f mm), %d pieces, %.1f%% used, offcut %.0f mm",
			i+1, bar.StockCode, bar.Length, len(bar.Placements), bar.Efficiency(), engine.Offcut(bar),
		))
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header, NewBarCanvas(bar, 640), widget.NewSeparator())
	}

	if len(plan.Unplaced) > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d pieces are longer than a stock bar and need joining.",
			len(plan.Unplaced),
		))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}

	if breakdown := buildStockCodeBreakdown(*plan); len(breakdown) > 1 {
		items = append(items, widget.NewSeparator())
		header := widget.NewLabel("Stock Breakdown:")
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header)
		for _, line := range breakdown {
			items = append(items, widget.NewLabel(line))
		}
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d bars used, %.1f%% overall efficiency",
		len(plan.Bars), plan.TotalEfficiency(),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}

// buildStockCodeBreakdown reports bar count, piece count and efficiency per
// stock code, in order of first appearance.
func buildStockCodeBreakdown(plan model.CutPlan) []string {
	if len(plan.Bars) == 0 {
		return nil
	}

	type codeStats struct {
		count  int
		pieces int
		used   float64
		total  float64
	}

	var order []string
	stats := make(map[string]*codeStats)
	for _, bar := range plan.Bars {
		s, ok := stats[bar.StockCode]
		if !ok {
			order = append(order, bar.StockCode)
			s = &codeStats{}
			stats[bar.StockCode] = s
		}
		s.count++
		s.pieces += len(bar.Placements)
		s.used += bar.UsedLength()
		s.total += bar.Length
	}

	lines := make([]string, 0, len(order))
	for _, code := range order {
		s := stats[code]
		eff := 0.0
		if s.total > 0 {
			eff = s.used / s.total * 100.0
		}
		lines = append(lines, fmt.Sprintf("  %s: %d bar(s), %d pieces, %.1f%% efficiency", code, s.count, s.pieces, eff))
	}
	return lines
}
