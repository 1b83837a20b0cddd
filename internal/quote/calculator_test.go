package quote

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RailCraft/internal/geometry"
	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/pricetable"
)

func testTable(rules ...pricetable.Row) *pricetable.Table {
	return pricetable.NewTable(map[pricetable.Resource][]pricetable.Row{
		pricetable.ResourceStockItems: {
			{"stock_code": "FB50x6_SS400", "cost_per_m": "1000"},
			{"stock_code": "FB45x6_SS400", "kg_per_m": "2", "cost_per_kg": "500"},
			{"stock_code": "PIPE20_SS400", "cost_per_m": "2000"},
			{"stock_code": "SQ50x50x2_SS400", "cost_per_m": "3000"},
			{"stock_code": "SQ50x30x2_SS400", "cost_per_m": "2500"},
		},
		pricetable.ResourceProcess: {
			{"step": "cut", "min_per_unit": "1"},
			{"step": "weld", "min_per_unit": "10"},
			{"step": "drill", "min_per_unit": "2"},
			{"step": "assembly", "min_per_unit": "1"},
			{"step": "grind", "min_per_unit": "5"},
		},
		pricetable.ResourceShopRate: {
			{"labor_cost_per_min": "100", "overhead_rate": "0.1", "margin_rate_default": "0.25", "vat_rate": "0.1"},
		},
		pricetable.ResourceModelRules: rules,
	})
}

func lineByLabel(q model.Quote, label string) (model.BOMLine, bool) {
	for _, l := range q.BOM {
		if l.Label == label {
			return l, true
		}
	}
	return model.BOMLine{}, false
}

func TestStockCodes(t *testing.T) {
	assert.Equal(t, "FB50x6_SS400", FlatBarCode(50, 6))
	assert.Equal(t, "FB50x4.5_SS400", FlatBarCode(50, 4.5))
	assert.Equal(t, "PIPE20_SS400", PipeCode(20))
	assert.Equal(t, "SQ50x30x2_SS400", SquareTubeCode(50, 30))
}

func TestFlatBarQuote(t *testing.T) {
	q, err := New(testTable()).Calculate(model.NewDesign(model.VariantFlatBar))
	require.NoError(t, err)

	assert.Equal(t, 3, q.Summary.Sections)
	assert.Equal(t, 4, q.Summary.PostCount)
	assert.Equal(t, 8, q.Summary.PostPipes)
	assert.Equal(t, 18, q.Summary.InfillCount)

	top, ok := lineByLabel(q, "Top rail")
	require.True(t, ok)
	assert.Equal(t, 3, top.Quantity)
	assert.InDelta(t, 3*888.0, top.Length, 1e-9)
	assert.Equal(t, "FB50x6_SS400", top.StockCode)

	caps, ok := lineByLabel(q, "Post caps")
	require.True(t, ok)
	assert.Equal(t, 8, caps.Quantity)
	assert.InDelta(t, 864.0, caps.Length, 1e-9)

	pipes, ok := lineByLabel(q, "Post pipes (2 per post)")
	require.True(t, ok)
	assert.Equal(t, 8, pipes.Quantity)
	assert.InDelta(t, 8*1028.0, pipes.Length, 1e-9)

	pickets, ok := lineByLabel(q, "Pickets")
	require.True(t, ok)
	assert.Equal(t, 18, pickets.Quantity)

	assert.InDelta(t, 59648.0, q.Pricing.MaterialCost, 1e-6)
	assert.Equal(t, 40, q.Process.Cuts)
	assert.Equal(t, 52, q.Process.HoleCount)
	assert.Equal(t, 52, q.Process.AssemblyCount)
	assert.Equal(t, 0.0, q.Process.WeldLength)
	assert.InDelta(t, 196.0, q.Process.LaborMinutes, 1e-9)
	assert.InDelta(t, 19600.0, q.Pricing.LaborCost, 1e-6)
	assert.InDelta(t, 7924.8, q.Pricing.OverheadCost, 1e-6)
	assert.Equal(t, 108966.0, q.Pricing.SupplyPrice)
	assert.Equal(t, 10897.0, q.Pricing.VAT)
	assert.Equal(t, 119863.0, q.Pricing.Total)
	assert.False(t, q.Pricing.Overridden)
	assert.Len(t, q.Pieces, q.Process.Cuts)
	assert.Len(t, q.ID, 8)
}

func TestFlatBarQuoteRespectsVisibility(t *testing.T) {
	d := model.NewDesign(model.VariantFlatBar)
	d.Visibility = d.Visibility.Toggled(model.PartInfill)
	q, err := New(testTable()).Calculate(d)
	require.NoError(t, err)

	_, ok := lineByLabel(q, "Pickets")
	assert.False(t, ok)
	assert.Equal(t, 16, q.Process.HoleCount, "only anchor holes remain")

	d.Visibility = model.NewVisibility(model.VariantFlatBar).WithStep(0)
	q, err = New(testTable()).Calculate(d)
	require.NoError(t, err)
	assert.Empty(t, q.BOM)
	assert.Equal(t, 0, q.Process.Cuts)
	assert.Equal(t, 0.0, q.Pricing.Total)
}

func TestRailAllowanceRule(t *testing.T) {
	q, err := New(testTable(
		pricetable.Row{"model_code": "flatbar-pipe", "key": "rail_allow_mm", "value": "100"},
		pricetable.Row{"model_code": "flatbar-pipe", "key": "holes_per_infill", "value": "0"},
	)).Calculate(model.NewDesign(model.VariantFlatBar))
	require.NoError(t, err)

	top, _ := lineByLabel(q, "Top rail")
	assert.InDelta(t, 3*888.0+100, top.Length, 1e-9)
	assert.Equal(t, 16, q.Process.HoleCount)
}

func TestRectFrameQuote(t *testing.T) {
	q, err := New(testTable()).Calculate(model.NewDesign(model.VariantRectFrame))
	require.NoError(t, err)

	posts, ok := lineByLabel(q, "Posts")
	require.True(t, ok)
	assert.Equal(t, "SQ50x50x2_SS400", posts.StockCode)
	assert.InDelta(t, 4*1160.0, posts.Length, 1e-9)

	bottom, _ := lineByLabel(q, "Bottom rail")
	assert.InDelta(t, 3*950.0+50, bottom.Length, 1e-9)
	top, _ := lineByLabel(q, "Top rail")
	assert.InDelta(t, 3000.0+50, top.Length, 1e-9)

	frames, ok := lineByLabel(q, "Frame modules")
	require.True(t, ok)
	assert.Equal(t, 60, frames.Quantity)
	assert.InDelta(t, 15*2*(100.0+120.0), frames.Length, 1e-9, "frame bars total the module perimeter")
	assert.Equal(t, 1000.0, frames.CostPerM, "weight-based unit cost")

	assert.InDelta(t, 15*2*220.0/1000, q.Process.WeldLength, 1e-9)
	assert.Equal(t, q.Process.WeldLength, q.Process.GrindLength)
	assert.Equal(t, 90, q.Process.HoleCount)
	assert.Equal(t, 4+9+60, q.Process.Cuts)
}

func TestUnknownStockFailsQuote(t *testing.T) {
	d := model.NewDesign(model.VariantRectFrame)
	d.RectFrame.RailHeight = 40
	_, err := New(testTable()).Calculate(d)

	require.Error(t, err)
	assert.True(t, errors.Is(err, pricetable.ErrUnknownStock))
	assert.Contains(t, err.Error(), "SQ50x40x2_SS400")
}

func TestMissingUnitCostFailsQuote(t *testing.T) {
	tbl := pricetable.NewTable(map[pricetable.Resource][]pricetable.Row{
		pricetable.ResourceStockItems: {
			{"stock_code": "FB50x6_SS400", "kg_per_m": "2.36"},
			{"stock_code": "PIPE20_SS400", "cost_per_m": "2000"},
		},
	})
	_, err := New(tbl).Calculate(model.NewDesign(model.VariantFlatBar))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pricetable.ErrMissingUnitCost))
	assert.Contains(t, err.Error(), "FB50x6_SS400")
}

func TestPricingIdentity(t *testing.T) {
	calc := New(testTable())
	for _, v := range model.Variants {
		for _, length := range []float64{800, 2500, 3050, 7777} {
			d := model.NewDesign(v)
			d.FlatBar.Length = length
			d.RectFrame.Length = length
			q, err := calc.Calculate(d)
			require.NoError(t, err)

			p := q.Pricing
			assert.Equal(t, p.SupplyPrice+p.VAT, p.Total)
			assert.Equal(t, roundHalf(p.CostTotal*(1+p.MarginRate)), p.SupplyPrice)
			assert.InDelta(t, p.MaterialCost+p.LaborCost+p.OverheadCost, p.CostTotal, 1e-6)
		}
	}
}

func roundHalf(v float64) float64 {
	r := float64(int64(v + 0.5))
	return r
}

func TestSellTotalOverride(t *testing.T) {
	q, err := New(testTable(
		pricetable.Row{"model_code": "flatbar-pipe", "key": "sell_total", "value": "110000"},
	)).Calculate(model.NewDesign(model.VariantFlatBar))
	require.NoError(t, err)

	assert.True(t, q.Pricing.Overridden)
	assert.Equal(t, 110000.0, q.Pricing.Total)
	assert.Equal(t, 100000.0, q.Pricing.SupplyPrice)
	assert.Equal(t, 10000.0, q.Pricing.VAT)
}

func TestUnusableSellValuesKeepMarginPricing(t *testing.T) {
	d := model.NewDesign(model.VariantFlatBar)
	want, err := New(testTable()).Calculate(d)
	require.NoError(t, err)

	for _, value := range []string{"", "  ", "n/a", "0", "-5000"} {
		q, err := New(testTable(
			pricetable.Row{"model_code": "flatbar-pipe", "key": "sell_total", "value": value},
			pricetable.Row{"model_code": "flatbar-pipe", "key": "sell_before_vat", "value": value},
		)).Calculate(d)
		require.NoError(t, err, "value %q", value)

		assert.False(t, q.Pricing.Overridden, "value %q", value)
		assert.Equal(t, want.Pricing.Total, q.Pricing.Total, "value %q", value)
		assert.Positive(t, q.Pricing.Total, "value %q", value)
		assert.Equal(t, math.Round(q.Pricing.CostTotal*(1+q.Pricing.MarginRate)), q.Pricing.SupplyPrice)
	}
}

func TestSellBeforeVATOverride(t *testing.T) {
	q, err := New(testTable(
		pricetable.Row{"model_code": "post-double-rail-rectframe", "key": "sell_before_vat", "value": "50000"},
	)).Calculate(model.NewDesign(model.VariantRectFrame))
	require.NoError(t, err)

	assert.True(t, q.Pricing.Overridden)
	assert.Equal(t, 50000.0, q.Pricing.SupplyPrice)
	assert.Equal(t, 5000.0, q.Pricing.VAT)
	assert.Equal(t, 55000.0, q.Pricing.Total)
}

func TestBothSellOverrides(t *testing.T) {
	q, err := New(testTable(
		pricetable.Row{"model_code": "flatbar-pipe", "key": "sell_before_vat", "value": "90000"},
		pricetable.Row{"model_code": "flatbar-pipe", "key": "sell_total", "value": "100000"},
	)).Calculate(model.NewDesign(model.VariantFlatBar))
	require.NoError(t, err)
	assert.Equal(t, 10000.0, q.Pricing.VAT)
}

func TestStockLengthRule(t *testing.T) {
	q, err := New(testTable(
		pricetable.Row{"model_code": "flatbar-pipe", "key": "stock_length_mm", "value": "5800"},
	)).Calculate(model.NewDesign(model.VariantFlatBar))
	require.NoError(t, err)
	assert.Equal(t, 5800.0, q.StockLength)
}

func TestQuoteMatchesGeometryCounts(t *testing.T) {
	calc := New(testTable())
	for _, src := range []model.MapSource{
		{},
		{"totalL": "3050", "picketGap": "90"},
		{"totalL": "12000", "postInt": "1500"},
	} {
		d := model.ReadDesign(model.VariantFlatBar, src, model.NewVisibility(model.VariantFlatBar))
		q, err := calc.Calculate(d)
		require.NoError(t, err)
		scene, _ := geometry.BuildDesign(d)

		pickets, _ := lineByLabel(q, "Pickets")
		pipes, _ := lineByLabel(q, "Post pipes (2 per post)")
		assert.Equal(t, scene.Count(model.RolePicket), pickets.Quantity)
		assert.Equal(t, scene.Count(model.RolePicket), q.Summary.InfillCount)
		assert.Equal(t, scene.Count(model.RolePostPipe), pipes.Quantity)
		assert.Equal(t, scene.Count(model.RolePostPipe), q.Summary.PostPipes)
		assert.Equal(t, scene.Count(model.RoleCapTop)+scene.Count(model.RoleCapBottom), mustLine(t, q, "Post caps").Quantity)
	}

	for _, src := range []model.MapSource{{}, {"totalL": "3050"}, {"moduleGap": "20"}} {
		d := model.ReadDesign(model.VariantRectFrame, src, model.NewVisibility(model.VariantRectFrame))
		q, err := calc.Calculate(d)
		require.NoError(t, err)
		scene, _ := geometry.BuildDesign(d)

		frames := scene.Count(model.RoleFrameVertical) + scene.Count(model.RoleFrameHorizontal)
		assert.Equal(t, frames, mustLine(t, q, "Frame modules").Quantity)
		assert.Equal(t, frames/4, q.Summary.InfillCount)
		assert.Equal(t, scene.Count(model.RolePost), q.Summary.PostPipes)
	}
}

func mustLine(t *testing.T, q model.Quote, label string) model.BOMLine {
	t.Helper()
	l, ok := lineByLabel(q, label)
	require.True(t, ok, "missing BOM line %q", label)
	return l
}
