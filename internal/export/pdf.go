// Package export renders quotes and cut plans into printable documents,
// label sheets, workbooks and drawings. Exporters only format the values
// they are given; nothing is recalculated here.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/monitoring"
	qrcode "github.com/skip2/go-qrcode"
)

// barColor represents an RGB color for a placed piece.
type barColor struct {
	R, G, B int
}

// barColors mirrors the color scheme used in the UI elevation canvas.
var barColors = []barColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	contentWidth = pageWidth - marginLeft - marginRight
	quoteQRSize  = 28.0
	rowHeight    = 6.0
)

// QuoteCode is the payload of the QR code printed on a quote.
type QuoteCode struct {
	ID      string  `json:"id"`
	Model   string  `json:"model"`
	Created string  `json:"created"`
	Length  float64 `json:"length_mm"`
	Height  float64 `json:"height_mm"`
	Total   float64 `json:"sell_total"`
}

// NewQuoteCode extracts the QR payload from a quote.
func NewQuoteCode(q model.Quote) QuoteCode {
	return QuoteCode{
		ID:      q.ID,
		Model:   string(q.Model),
		Created: q.CreatedAt.Format("2006-01-02"),
		Length:  q.Summary.Length,
		Height:  q.Summary.Height,
		Total:   q.Pricing.Total,
	}
}

// ExportQuotePDF writes the quote document: header with QR code, layout
// summary, bill of materials, process metrics and the price roll-up.
// When plan is not nil a cut plan page follows.
func ExportQuotePDF(path string, q model.Quote, plan *model.CutPlan) error {
	if len(q.BOM) == 0 {
		return fmt.Errorf("quote %s has no material lines", q.ID)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	if err := renderQuoteHeader(pdf, q); err != nil {
		return err
	}
	y := renderSummary(pdf, q, marginTop+quoteQRSize+8)
	y = renderBOMTable(pdf, tr, q, y+6)
	y = renderProcess(pdf, q, y+6)
	renderPricing(pdf, q, y+6)
	renderFooter(pdf)

	if plan != nil && len(plan.Bars) > 0 {
		pdf.AddPage()
		renderCutPlanPage(pdf, *plan)
		renderFooter(pdf)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write quote pdf: %w", err)
	}
	monitoring.Logf("export: quote %s written to %s", q.ID, path)
	return nil
}

// renderQuoteHeader draws the title block and QR code.
func renderQuoteHeader(pdf *fpdf.Fpdf, q model.Quote) error {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth-quoteQRSize, 10, "Railing Quotation", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+11)
	pdf.CellFormat(100, 5, "Quote No. "+q.ID, "", 0, "L", false, 0, "")
	pdf.SetXY(marginLeft, marginTop+16)
	pdf.CellFormat(100, 5, "Date: "+q.CreatedAt.Format("2006-01-02"), "", 0, "L", false, 0, "")
	pdf.SetXY(marginLeft, marginTop+21)
	pdf.CellFormat(100, 5, "Model: "+q.Model.String(), "", 0, "L", false, 0, "")

	payload, err := json.Marshal(NewQuoteCode(q))
	if err != nil {
		return fmt.Errorf("failed to marshal quote code: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	imgName := "qr_quote_" + q.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imgName, pageWidth-marginRight-quoteQRSize, marginTop, quoteQRSize, quoteQRSize,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+quoteQRSize+3, pageWidth-marginRight, marginTop+quoteQRSize+3)
	return nil
}

// renderSummary prints the layout figures and returns the next free y.
func renderSummary(pdf *fpdf.Fpdf, q model.Quote, y float64) float64 {
	s := q.Summary
	items := []struct {
		label string
		value string
	}{
		{"Length", formatMM(s.Length)},
		{"Height", formatMM(s.Height)},
		{"Sections", fmt.Sprintf("%d @ %s", s.Sections, formatMM(s.Interval))},
		{"Post positions", fmt.Sprintf("%d", s.PostCount)},
		{"Infill pieces", fmt.Sprintf("%d", s.InfillCount)},
	}
	if s.PostPipes > 0 {
		items = append(items, struct {
			label string
			value string
		}{"Post pipes", fmt.Sprintf("%d", s.PostPipes)})
	}

	y = sectionTitle(pdf, "Layout", y)
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(45, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 5, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 5.5
	}
	return y
}

// renderBOMTable prints the material lines and returns the next free y.
func renderBOMTable(pdf *fpdf.Fpdf, tr func(string) string, q model.Quote, y float64) float64 {
	y = sectionTitle(pdf, "Bill of Materials", y)

	colWidths := []float64{38, 40, 36, 14, 24, 28}
	headers := []string{"Item", "Stock", "Length", "Qty", "Per m", "Cost"}
	y = tableHeader(pdf, colWidths, headers, y)

	pdf.SetFont("Helvetica", "", 8)
	for i, line := range q.BOM {
		if y > pageHeight-marginBottom-20 {
			renderFooter(pdf)
			pdf.AddPage()
			y = tableHeader(pdf, colWidths, headers, marginTop)
			pdf.SetFont("Helvetica", "", 8)
		}
		stock := line.StockCode
		if line.Name != "" {
			stock = line.Name
		}
		row := []string{
			line.Label,
			tr(stock),
			formatMM(line.Length),
			fmt.Sprintf("%d", line.Quantity),
			GroupThousands(int64(line.CostPerM)),
			FormatWon(line.Cost),
		}
		y = tableRow(pdf, colWidths, row, i, y)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(marginLeft, y+1)
	pdf.CellFormat(contentWidth-colWidths[len(colWidths)-1], 6, "Material total", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[len(colWidths)-1], 6, FormatWon(q.MaterialTotal()), "", 0, "C", false, 0, "")
	return y + 8
}

// renderProcess prints the fabrication metrics and returns the next free y.
func renderProcess(pdf *fpdf.Fpdf, q model.Quote, y float64) float64 {
	p := q.Process
	y = sectionTitle(pdf, "Fabrication", y)
	items := []struct {
		label string
		value string
	}{
		{"Cuts", fmt.Sprintf("%d", p.Cuts)},
		{"Weld length", fmt.Sprintf("%.2f m", p.WeldLength)},
		{"Grind length", fmt.Sprintf("%.2f m", p.GrindLength)},
		{"Holes", fmt.Sprintf("%d", p.HoleCount)},
		{"Assembly", fmt.Sprintf("%d", p.AssemblyCount)},
		{"Labor", fmt.Sprintf("%.0f min", p.LaborMinutes)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for i, item := range items {
		x := marginLeft + 5 + float64(i%3)*60
		if i > 0 && i%3 == 0 {
			y += 5
		}
		pdf.SetXY(x, y)
		pdf.CellFormat(28, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
	}
	return y + 6
}

// renderPricing prints the cost roll-up ending in the sell total.
func renderPricing(pdf *fpdf.Fpdf, q model.Quote, y float64) {
	p := q.Pricing
	y = sectionTitle(pdf, "Price", y)

	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Material", FormatWon(p.MaterialCost), false},
		{"Labor", FormatWon(p.LaborCost), false},
		{"Overhead", FormatWon(p.OverheadCost), false},
		{"Cost total", FormatWon(p.CostTotal), false},
		{fmt.Sprintf("Supply price (margin %.0f%%)", p.MarginRate*100), FormatWon(p.SupplyPrice), false},
		{fmt.Sprintf("VAT (%.0f%%)", p.VATRate*100), FormatWon(p.VAT), false},
		{"Total", FormatWon(p.Total), true},
	}
	if p.Overridden {
		rows[4].label = "Supply price (price table)"
	}

	for _, r := range rows {
		style := ""
		if r.bold {
			style = "B"
			pdf.SetDrawColor(0, 0, 0)
			pdf.SetLineWidth(0.3)
			pdf.Line(marginLeft+90, y, pageWidth-marginRight, y)
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetXY(marginLeft+90, y)
		pdf.CellFormat(50, 6, r.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth-140, 6, r.value, "", 0, "R", false, 0, "")
		y += 6
	}
}

// renderCutPlanPage draws every stock bar as a strip with its pieces.
func renderCutPlanPage(pdf *fpdf.Fpdf, plan model.CutPlan) {
	y := sectionTitle(pdf, "Cut Plan", marginTop)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, y)
	stats := fmt.Sprintf("Bars: %d | Efficiency: %.1f%% | Unplaced pieces: %d",
		len(plan.Bars), plan.TotalEfficiency(), len(plan.Unplaced))
	pdf.CellFormat(contentWidth, 5, stats, "", 0, "L", false, 0, "")
	y += 8

	const stripHeight = 7.0
	for i, bar := range plan.Bars {
		if y > pageHeight-marginBottom-20 {
			renderFooter(pdf)
			pdf.AddPage()
			y = marginTop
		}

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, 4, fmt.Sprintf("Bar %d: %s, %s, %.1f%%",
			i+1, bar.StockCode, formatMM(bar.Length), bar.Efficiency()), "", 0, "L", false, 0, "")
		y += 4.5

		scale := contentWidth / bar.Length
		pdf.SetFillColor(225, 225, 225)
		pdf.SetDrawColor(100, 100, 100)
		pdf.SetLineWidth(0.2)
		pdf.Rect(marginLeft, y, contentWidth, stripHeight, "FD")

		pdf.SetFont("Helvetica", "", 6)
		for j, pl := range bar.Placements {
			col := barColors[j%len(barColors)]
			px := marginLeft + pl.Offset*scale
			pw := pl.Piece.Length * scale
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.Rect(px, y, pw, stripHeight, "FD")

			label := fmt.Sprintf("%s %.0f", pl.Piece.Label, pl.Piece.Length)
			if lw := pdf.GetStringWidth(label); lw < pw-1 {
				pdf.SetXY(px+(pw-lw)/2, y+1.5)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
		}
		y += stripHeight + 4
	}

	if len(plan.Unplaced) > 0 {
		y += 4
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, 6, "WARNING: Pieces longer than a stock bar", "", 0, "L", false, 0, "")
		y += 7

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, pc := range plan.Unplaced {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(contentWidth, 5, fmt.Sprintf("- %s: %s (%s)", pc.Label, formatMM(pc.Length), pc.StockCode), "", 0, "L", false, 0, "")
			y += 5
		}
	}
}

func sectionTitle(pdf *fpdf.Fpdf, title string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, title, "", 0, "L", false, 0, "")
	return y + 8
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, headers []string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + rowHeight
}

func tableRow(pdf *fpdf.Fpdf, widths []float64, cells []string, index int, y float64) float64 {
	// Alternate row background
	if index%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	x := marginLeft
	for i, cell := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], rowHeight, cell, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + rowHeight
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentWidth, 4, "Generated by RailCraft - Railing Designer & Quotation", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
