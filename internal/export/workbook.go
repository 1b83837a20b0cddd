package export

import (
	"fmt"

	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/monitoring"
	"github.com/xuri/excelize/v2"
)

// Worksheet names written by ExportBOMWorkbook.
const (
	SheetBOM     = "BOM"
	SheetPieces  = "Pieces"
	SheetCutPlan = "Cut Plan"
	SheetPrice   = "Price"
)

// ExportBOMWorkbook writes the quote's material lines, cut pieces and price
// roll-up to an .xlsx workbook, plus the cut plan when plan is not nil.
func ExportBOMWorkbook(path string, q model.Quote, plan *model.CutPlan) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetBOM); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bomRows := [][]any{{"Item", "Stock code", "Name", "Length (mm)", "Qty", "Cost per m", "Cost"}}
	for _, l := range q.BOM {
		bomRows = append(bomRows, []any{l.Label, l.StockCode, l.Name, l.Length, l.Quantity, l.CostPerM, l.Cost})
	}
	bomRows = append(bomRows, []any{"Material total", "", "", "", "", "", q.MaterialTotal()})
	if err := writeSheet(f, SheetBOM, bomRows, header); err != nil {
		return err
	}

	pieceRows := [][]any{{"Label", "Stock code", "Length (mm)", "Section", "Post"}}
	for _, pc := range q.Pieces {
		pieceRows = append(pieceRows, []any{pc.Label, pc.StockCode, pc.Length, pc.Section + 1, pc.Post + 1})
	}
	if err := writeSheet(f, SheetPieces, pieceRows, header); err != nil {
		return err
	}

	if plan != nil {
		planRows := [][]any{{"Bar", "Stock code", "Bar length (mm)", "Piece", "Length (mm)", "Offset (mm)"}}
		for i, bar := range plan.Bars {
			for _, pl := range bar.Placements {
				planRows = append(planRows, []any{i + 1, bar.StockCode, bar.Length, pl.Piece.Label, pl.Piece.Length, pl.Offset})
			}
		}
		for _, pc := range plan.Unplaced {
			planRows = append(planRows, []any{"unplaced", pc.StockCode, "", pc.Label, pc.Length, ""})
		}
		if err := writeSheet(f, SheetCutPlan, planRows, header); err != nil {
			return err
		}
	}

	p := q.Pricing
	priceRows := [][]any{
		{"Quote", q.ID},
		{"Model", string(q.Model)},
		{"Date", q.CreatedAt.Format("2006-01-02")},
		{"Cuts", q.Process.Cuts},
		{"Weld (m)", q.Process.WeldLength},
		{"Grind (m)", q.Process.GrindLength},
		{"Holes", q.Process.HoleCount},
		{"Labor (min)", q.Process.LaborMinutes},
		{"Material", p.MaterialCost},
		{"Labor", p.LaborCost},
		{"Overhead", p.OverheadCost},
		{"Cost total", p.CostTotal},
		{"Supply price", p.SupplyPrice},
		{"VAT", p.VAT},
		{"Total", p.Total},
	}
	if err := writeSheet(f, SheetPrice, priceRows, 0); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	monitoring.Logf("export: workbook for quote %s written to %s", q.ID, path)
	return nil
}

// writeSheet writes rows starting at A1, creating the sheet if needed. A
// non-zero headerStyle is applied to the first row.
func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	width := 0
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, r+1, err)
		}
		width = max(width, len(row))
	}
	if width == 0 {
		return nil
	}

	last, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
		return fmt.Errorf("set %s column width: %w", sheet, err)
	}
	if headerStyle != 0 {
		end, _ := excelize.CoordinatesToCellName(width, 1)
		if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
	}
	return nil
}
