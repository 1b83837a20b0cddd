package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/piwi3910/RailCraft/internal/geometry"
	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildTestQuote creates a realistic quote for testing.
func buildTestQuote() model.Quote {
	return model.Quote{
		ID:        "a1b2c3d4",
		Model:     model.VariantFlatBar,
		CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Summary: model.QuoteSummary{
			Length: 3000, Height: 1100, Sections: 2, Interval: 1500,
			PostCount: 3, PostPipes: 6, InfillCount: 12,
		},
		BOM: []model.BOMLine{
			{Label: "Top rail", StockCode: "FB50x10_SS400", Name: "Flat bar 50x10", Length: 3000, Quantity: 2, CostPerM: 6000, Cost: 18000},
			{Label: "Post pipes (2 per post)", StockCode: "PIPE27.2_SS400", Name: "Pipe 27.2", Length: 6000, Quantity: 6, CostPerM: 3000, Cost: 18000},
		},
		Pieces: []model.CutPiece{
			{Label: "Top rail S1", StockCode: "FB50x10_SS400", Length: 1500, Section: 0, Post: -1},
			{Label: "Top rail S2", StockCode: "FB50x10_SS400", Length: 1500, Section: 1, Post: -1},
			{Label: "Post pipe P1-L", StockCode: "PIPE27.2_SS400", Length: 1000, Section: -1, Post: 0},
		},
		Process: model.ProcessMetrics{Cuts: 3, HoleCount: 36, AssemblyCount: 36, LaborMinutes: 120},
		Pricing: model.Pricing{
			MaterialCost: 36000, LaborCost: 60000, OverheadCost: 9600, CostTotal: 105600,
			SupplyPrice: 132000, VAT: 13200, Total: 145200, MarginRate: 0.25, VATRate: 0.1,
		},
	}
}

func buildTestPlan() model.CutPlan {
	q := buildTestQuote()
	return model.CutPlan{
		Bars: []model.BarResult{
			{StockCode: "FB50x10_SS400", Length: 6000, Placements: []model.CutPlacement{
				{Piece: q.Pieces[0], Offset: 0},
				{Piece: q.Pieces[1], Offset: 1502},
			}},
			{StockCode: "PIPE27.2_SS400", Length: 6000, Placements: []model.CutPlacement{
				{Piece: q.Pieces[2], Offset: 0},
			}},
		},
		Unplaced: []model.CutPiece{
			{Label: "Long rail", StockCode: "FB50x10_SS400", Length: 7000, Section: 0, Post: -1},
		},
	}
}

func assertNonEmptyFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestFormatWon(t *testing.T) {
	cases := map[float64]string{
		0:          "0 KRW",
		999:        "999 KRW",
		1000:       "1,000 KRW",
		1234567:    "1,234,567 KRW",
		119862.6:   "119,863 KRW",
		-1234567.0: "-1,234,567 KRW",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatWon(in), "FormatWon(%v)", in)
	}
}

func TestFormatMM(t *testing.T) {
	assert.Equal(t, "1500 mm", formatMM(1500))
	assert.Equal(t, "1473.3 mm", formatMM(1473.333))
}

func TestExportQuotePDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.pdf")
	plan := buildTestPlan()

	if err := ExportQuotePDF(path, buildTestQuote(), &plan); err != nil {
		t.Fatalf("ExportQuotePDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 1000)
}

func TestExportQuotePDF_WithoutPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.pdf")

	if err := ExportQuotePDF(path, buildTestQuote(), nil); err != nil {
		t.Fatalf("ExportQuotePDF returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestExportQuotePDF_EmptyQuote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportQuotePDF(path, model.Quote{ID: "x"}, nil)
	if err == nil {
		t.Fatal("expected error for quote without material lines, got nil")
	}
}

func TestExportQuotePDF_ManyLinesPaginates(t *testing.T) {
	q := buildTestQuote()
	for i := 0; i < 60; i++ {
		q.BOM = append(q.BOM, model.BOMLine{Label: "Extra", StockCode: "FB50x10_SS400", Length: 100, Quantity: 1, Cost: 10})
	}
	path := filepath.Join(t.TempDir(), "long.pdf")

	require.NoError(t, ExportQuotePDF(path, q, nil))
	assertNonEmptyFile(t, path, 1000)
}

func TestNewQuoteCode(t *testing.T) {
	code := NewQuoteCode(buildTestQuote())

	assert.Equal(t, "a1b2c3d4", code.ID)
	assert.Equal(t, "flatbar-pipe", code.Model)
	assert.Equal(t, "2026-03-14", code.Created)
	assert.Equal(t, 145200.0, code.Total)
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos("a1b2c3d4", buildTestPlan())

	require.Len(t, labels, 4)

	assert.Equal(t, "Top rail S1", labels[0].Label)
	assert.Equal(t, 1, labels[0].Bar)
	assert.Equal(t, 1, labels[0].Section)
	assert.Equal(t, 0, labels[0].Post)

	assert.Equal(t, 1502.0, labels[1].Offset)
	assert.Equal(t, 2, labels[1].Section)

	assert.Equal(t, 2, labels[2].Bar)
	assert.Equal(t, 1, labels[2].Post)
	assert.Equal(t, 0, labels[2].Section)

	// Unplaced pieces come last with no bar
	assert.Equal(t, "Long rail", labels[3].Label)
	assert.Equal(t, 0, labels[3].Bar)
	assert.Equal(t, "a1b2c3d4", labels[3].QuoteID)
}

func TestPlaceText(t *testing.T) {
	assert.Equal(t, "Section 2 | Bar 1 @ 1502", placeText(LabelInfo{Section: 2, Bar: 1, Offset: 1502}))
	assert.Equal(t, "Post 3", placeText(LabelInfo{Post: 3}))
}

func TestLabelInfo_JSONFields(t *testing.T) {
	data, err := json.Marshal(LabelInfo{QuoteID: "q", Label: "Picket S1-1", Length: 800, Bar: 2})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"quote":"q"`)
	assert.Contains(t, s, `"length_mm":800`)
	assert.Contains(t, s, `"bar":2`)
}

func TestExportCutLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportCutLabels(path, "a1b2c3d4", buildTestPlan()); err != nil {
		t.Fatalf("ExportCutLabels returned error: %v", err)
	}
	assertNonEmptyFile(t, path, 500)
}

func TestExportCutLabels_EmptyPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportCutLabels(path, "q", model.CutPlan{}); err == nil {
		t.Fatal("expected error for empty plan, got nil")
	}
}

func TestExportCutLabels_ManyPieces(t *testing.T) {
	// 35 pieces spill onto a second label sheet
	bar := model.BarResult{StockCode: "PIPE27.2_SS400", Length: 60000}
	for i := 0; i < 35; i++ {
		bar.Placements = append(bar.Placements, model.CutPlacement{
			Piece:  model.CutPiece{Label: "Picket", StockCode: bar.StockCode, Length: 800, Section: i / 10, Post: -1},
			Offset: float64(i) * 802,
		})
	}
	path := filepath.Join(t.TempDir(), "many.pdf")

	require.NoError(t, ExportCutLabels(path, "q", model.CutPlan{Bars: []model.BarResult{bar}}))
	assertNonEmptyFile(t, path, 1000)
}

func TestExportBOMWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.xlsx")
	q := buildTestQuote()
	plan := buildTestPlan()

	require.NoError(t, ExportBOMWorkbook(path, q, &plan))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{SheetBOM, SheetPieces, SheetCutPlan, SheetPrice}, f.GetSheetList())

	rows, err := f.GetRows(SheetBOM)
	require.NoError(t, err)
	require.Len(t, rows, len(q.BOM)+2)
	assert.Equal(t, "Item", rows[0][0])
	assert.Equal(t, "Top rail", rows[1][0])
	assert.Equal(t, "FB50x10_SS400", rows[1][1])
	assert.Equal(t, "Material total", rows[3][0])
	assert.Equal(t, "36000", rows[3][6])

	plan2, err := f.GetRows(SheetCutPlan)
	require.NoError(t, err)
	assert.Len(t, plan2, 1+3+1)

	price, err := f.GetRows(SheetPrice)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total", "145200"}, price[len(price)-1])
}

func TestExportBOMWorkbook_WithoutPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.xlsx")

	require.NoError(t, ExportBOMWorkbook(path, buildTestQuote(), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), SheetCutPlan)
}

func TestLayerFor(t *testing.T) {
	assert.Equal(t, LayerRails, LayerFor(model.RoleRailTop))
	assert.Equal(t, LayerRails, LayerFor(model.RoleCapBottom))
	assert.Equal(t, LayerInfill, LayerFor(model.RolePicket))
	assert.Equal(t, LayerInfill, LayerFor(model.RoleFrameHorizontal))
	assert.Equal(t, LayerBase, LayerFor(model.RoleAnchor))
	assert.Equal(t, LayerPosts, LayerFor(model.RolePostPipe))
	assert.Equal(t, LayerPosts, LayerFor(model.RolePost))
}

func TestExportElevationDXF(t *testing.T) {
	for _, v := range model.Variants {
		t.Run(string(v), func(t *testing.T) {
			scene, _ := geometry.BuildDesign(model.NewDesign(v))
			path := filepath.Join(t.TempDir(), "elevation.dxf")

			require.NoError(t, ExportElevationDXF(path, scene))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			s := string(data)
			assert.Contains(t, s, "LINE")
			assert.Contains(t, s, LayerPosts)
			assert.Contains(t, s, LayerInfill)
		})
	}
}

func TestExportElevationDXF_EmptyScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dxf")

	err := ExportElevationDXF(path, geometry.Scene{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no primitives"))
}
