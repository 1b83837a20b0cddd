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

// LabelInfo holds the data encoded into each cut piece label's QR code.
type LabelInfo struct {
	QuoteID   string  `json:"quote"`
	Label     string  `json:"label"`
	StockCode string  `json:"stock"`
	Length    float64 `json:"length_mm"`
	Section   int     `json:"section"` // 1-based, 0 when the piece belongs to a post
	Post      int     `json:"post"`    // 1-based, 0 when the piece belongs to a section
	Bar       int     `json:"bar"`     // 1-based stock bar, 0 when unplaced
	Offset    float64 `json:"offset_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportCutLabels generates a PDF of QR-coded labels, one per cut piece,
// in bar order so the labels come off the sheet in cutting order.
func ExportCutLabels(path string, quoteID string, plan model.CutPlan) error {
	labels := CollectLabelInfos(quoteID, plan)
	if len(labels) == 0 {
		return fmt.Errorf("no cut pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Label, err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write labels pdf: %w", err)
	}
	monitoring.Logf("export: %d cut labels written to %s", len(labels), path)
	return nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, index int, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_label_%d", index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	title := info.Label
	if pdf.GetStringWidth(title) > textW {
		for len(title) > 0 && pdf.GetStringWidth(title+"...") > textW {
			title = title[:len(title)-1]
		}
		title += "..."
	}
	pdf.CellFormat(textW, 4.5, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, formatMM(info.Length), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, info.StockCode, "", 1, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, placeText(info), "", 0, "L", false, 0, "")

	if info.Bar == 0 {
		pdf.SetXY(textX, y+labelPadding+16)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(180, 0, 0)
		pdf.CellFormat(textW, 3, "Longer than stock bar", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// placeText describes where the piece is cut from and where it goes.
func placeText(info LabelInfo) string {
	where := "Section " + fmt.Sprint(info.Section)
	if info.Post > 0 {
		where = "Post " + fmt.Sprint(info.Post)
	} else if info.Section == 0 {
		where = "Railing"
	}
	if info.Bar == 0 {
		return where
	}
	return fmt.Sprintf("%s | Bar %d @ %.0f", where, info.Bar, info.Offset)
}

// CollectLabelInfos lists the label data of every piece in the plan, placed
// pieces first in bar order, then the unplaced ones.
func CollectLabelInfos(quoteID string, plan model.CutPlan) []LabelInfo {
	var labels []LabelInfo
	for barIdx, bar := range plan.Bars {
		for _, p := range bar.Placements {
			info := labelInfo(quoteID, p.Piece)
			info.Bar = barIdx + 1
			info.Offset = p.Offset
			labels = append(labels, info)
		}
	}
	for _, pc := range plan.Unplaced {
		labels = append(labels, labelInfo(quoteID, pc))
	}
	return labels
}

func labelInfo(quoteID string, pc model.CutPiece) LabelInfo {
	return LabelInfo{
		QuoteID:   quoteID,
		Label:     pc.Label,
		StockCode: pc.StockCode,
		Length:    pc.Length,
		Section:   pc.Section + 1,
		Post:      pc.Post + 1,
	}
}
