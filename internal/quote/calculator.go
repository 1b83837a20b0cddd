// Package quote derives the bill of materials, labor estimate and price of
// a railing from the same layout the geometry builder draws.
package quote

import (
	"fmt"
	"math"
	"time"

	"github.com/piwi3910/RailCraft/internal/layout"
	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/pricetable"
)

// PriceLookup is the read-only price table the calculator prices against.
type PriceLookup interface {
	StockCost(code string, lengthMM float64) (pricetable.StockCost, error)
	Process(step string) (pricetable.ProcessRule, bool)
	ShopRate() pricetable.ShopRate
	ModelRule(v model.Variant, key string, fallback float64) float64
	HasModelRule(v model.Variant, key string) bool
}

// Calculator prices designs against one price table.
type Calculator struct {
	prices PriceLookup
	now    func() time.Time
}

// New returns a calculator using prices.
func New(prices PriceLookup) *Calculator {
	return &Calculator{prices: prices, now: time.Now}
}

// Calculate builds the quote of design d. Any stock code the price table
// cannot price fails the whole quote.
func (c *Calculator) Calculate(d model.Design) (model.Quote, error) {
	l := layout.Derive(d)

	q := model.NewQuote(d.Variant)
	q.CreatedAt = c.now()
	q.Summary = model.QuoteSummary{
		Length:      l.Length,
		Height:      l.Height,
		Sections:    l.NumSections,
		Interval:    l.Interval,
		PostCount:   l.PostCount(),
		PostPipes:   l.PostPipeCount(),
		InfillCount: l.InfillCount(),
	}
	q.StockLength = c.prices.ModelRule(d.Variant, RuleStockLength, 0)

	var b bom
	var metrics model.ProcessMetrics
	switch d.Variant {
	case model.VariantRectFrame:
		b, metrics = c.rectFrame(d, l)
	default:
		b, metrics = c.flatBar(d, l)
	}

	lines, err := c.price(b)
	if err != nil {
		return model.Quote{}, fmt.Errorf("quote %s: %w", d.Variant, err)
	}
	q.BOM = lines
	q.Pieces = b.pieces
	metrics.Cuts = len(b.pieces)
	metrics.LaborMinutes = c.laborMinutes(metrics)
	q.Process = metrics
	q.Pricing = c.pricing(d.Variant, q.MaterialTotal(), metrics.LaborMinutes)
	return q, nil
}

func (c *Calculator) flatBar(d model.Design, l layout.Layout) (bom, model.ProcessMetrics) {
	p := d.FlatBar
	vis := d.Visibility
	bar := FlatBarCode(p.BarWidth, p.BarThickness)
	pipe := PipeCode(p.PipeOD)
	allow := c.prices.ModelRule(model.VariantFlatBar, RuleRailAllow, 0)

	var b bom
	if vis.Shows(model.PartTopRail) {
		b.startLine("Top rail", bar)
		for _, s := range l.Sections {
			b.addSection(fmt.Sprintf("Top rail S%d", s.Index+1), s.TopRailLength, s.Index)
		}
		b.allowance(allow)
	}
	if vis.Shows(model.PartBottomRail) {
		b.startLine("Bottom rail", bar)
		for _, s := range l.Sections {
			b.addSection(fmt.Sprintf("Bottom rail S%d", s.Index+1), s.RailLength, s.Index)
		}
		b.allowance(allow)
	}

	posts := vis.Shows(model.PartPosts)
	if posts {
		b.startLine("Post caps", bar)
		for i, pm := range l.Posts {
			if d.Post.MakeTopCap {
				b.addPost(fmt.Sprintf("Top cap P%d", i+1), pm.CapLength, i)
			}
			if d.Post.MakeBottomCap && vis.Shows(model.PartBottomRail) {
				b.addPost(fmt.Sprintf("Bottom cap P%d", i+1), pm.CapLength, i)
			}
		}

		b.startLine("Post pipes (2 per post)", pipe)
		for i := range l.Posts {
			b.addPost(fmt.Sprintf("Post pipe P%d-L", i+1), l.Levels.PostHeight, i)
			b.addPost(fmt.Sprintf("Post pipe P%d-R", i+1), l.Levels.PostHeight, i)
		}
	}

	infill := 0
	if vis.Shows(model.PartInfill) {
		b.startLine("Pickets", pipe)
		for _, s := range l.Sections {
			for j := range s.InfillX {
				b.addSection(fmt.Sprintf("Picket S%d-%d", s.Index+1, j+1), l.Levels.InfillHeight, s.Index)
				infill++
			}
		}
	}

	holes := c.holes(model.VariantFlatBar, infill, posts, l.PostCount(), 2, 4)
	return b, model.ProcessMetrics{
		HoleCount:     holes,
		AssemblyCount: holes,
	}
}

func (c *Calculator) rectFrame(d model.Design, l layout.Layout) (bom, model.ProcessMetrics) {
	p := d.RectFrame
	vis := d.Visibility
	postCode := SquareTubeCode(p.PostWidth, p.PostDepth)
	railCode := SquareTubeCode(p.RailWidth, p.RailHeight)
	bar := FlatBarCode(p.BarWidth, p.BarThickness)
	allow := c.prices.ModelRule(model.VariantRectFrame, RuleRailAllow, 50)

	var b bom
	posts := vis.Shows(model.PartPosts)
	if posts {
		b.startLine("Posts", postCode)
		for i := range l.Posts {
			b.addPost(fmt.Sprintf("Post P%d", i+1), l.Levels.PostHeight, i)
		}
	}

	runs := []struct {
		part  model.Part
		label string
		top   bool
	}{
		{model.PartBottomRail, "Bottom rail", false},
		{model.PartMidRail, "Mid rail", false},
		{model.PartTopRail, "Top rail", true},
	}
	for _, run := range runs {
		if !vis.Shows(run.part) {
			continue
		}
		b.startLine(run.label, railCode)
		for _, s := range l.Sections {
			length := s.RailLength
			if run.top {
				length = s.TopRailLength
			}
			b.addSection(fmt.Sprintf("%s S%d", run.label, s.Index+1), length, s.Index)
		}
		b.allowance(allow)
	}

	modules := 0
	if vis.Shows(model.PartInfill) {
		vLen := math.Max(10, p.ModuleHeight) + p.BarThickness
		hLen := math.Max(10, math.Max(10, p.ModuleWidth)-p.BarThickness)
		b.startLine("Frame modules", bar)
		for _, s := range l.Sections {
			for j := range s.InfillX {
				tag := fmt.Sprintf("M%d-%d", s.Index+1, j+1)
				b.addSection("Frame vertical "+tag, vLen, s.Index)
				b.addSection("Frame vertical "+tag, vLen, s.Index)
				b.addSection("Frame horizontal "+tag, hLen, s.Index)
				b.addSection("Frame horizontal "+tag, hLen, s.Index)
				modules++
			}
		}
	}

	weld := float64(modules) * 2 * (p.ModuleWidth + p.ModuleHeight) / 1000
	holes := c.holes(model.VariantRectFrame, modules, posts, l.PostCount(), 6, 0)
	return b, model.ProcessMetrics{
		WeldLength:    weld,
		GrindLength:   weld,
		HoleCount:     holes,
		AssemblyCount: holes,
	}
}

func (c *Calculator) holes(v model.Variant, infill int, posts bool, postCount int, perInfill, perPost float64) int {
	n := float64(infill) * c.prices.ModelRule(v, RuleHolesPerInfill, perInfill)
	if posts {
		n += float64(postCount) * c.prices.ModelRule(v, RuleHolesPerPost, perPost)
	}
	return int(math.Round(n))
}

func (c *Calculator) price(b bom) ([]model.BOMLine, error) {
	lines := make([]model.BOMLine, 0, len(b.lines))
	for _, l := range b.lines {
		if l.Quantity == 0 || l.Length <= 0 {
			continue
		}
		cost, err := c.prices.StockCost(l.StockCode, l.Length)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.Label, err)
		}
		l.Name = cost.Name
		l.CostPerM = cost.CostPerM
		l.Cost = cost.Cost
		lines = append(lines, l)
	}
	return lines, nil
}

func (c *Calculator) rate(step string) float64 {
	r, _ := c.prices.Process(step)
	return r.MinPerUnit
}

func (c *Calculator) laborMinutes(m model.ProcessMetrics) float64 {
	return c.rate(pricetable.StepCut)*float64(m.Cuts) +
		c.rate(pricetable.StepWeld)*m.WeldLength +
		c.rate(pricetable.StepDrill)*float64(m.HoleCount) +
		c.rate(pricetable.StepAssembly)*float64(m.AssemblyCount) +
		c.rate(pricetable.StepGrind)*m.GrindLength
}

func (c *Calculator) pricing(v model.Variant, material, minutes float64) model.Pricing {
	shop := c.prices.ShopRate()
	p := model.Pricing{
		MaterialCost: material,
		LaborCost:    minutes * shop.LaborCostPerMin,
		MarginRate:   shop.MarginRate,
		VATRate:      shop.VATRate,
	}
	p.OverheadCost = (p.MaterialCost + p.LaborCost) * shop.OverheadRate
	p.CostTotal = p.MaterialCost + p.LaborCost + p.OverheadCost

	pre, hasPre := c.sellOverride(v, RuleSellBeforeVAT)
	total, hasTotal := c.sellOverride(v, RuleSellTotal)
	switch {
	case hasPre && hasTotal:
		p.SupplyPrice = math.Round(pre)
		p.Total = math.Round(total)
		p.VAT = p.Total - p.SupplyPrice
		p.Overridden = true
	case hasTotal:
		p.Total = math.Round(total)
		p.SupplyPrice = math.Round(p.Total / (1 + p.VATRate))
		p.VAT = p.Total - p.SupplyPrice
		p.Overridden = true
	case hasPre:
		p.SupplyPrice = math.Round(pre)
		p.VAT = math.Round(p.SupplyPrice * p.VATRate)
		p.Total = p.SupplyPrice + p.VAT
		p.Overridden = true
	default:
		p.SupplyPrice = math.Round(p.CostTotal * (1 + p.MarginRate))
		p.VAT = math.Round(p.SupplyPrice * p.VATRate)
		p.Total = p.SupplyPrice + p.VAT
	}
	return p
}

// sellOverride returns a table sell value for v. Only positive values
// override; anything else leaves the margin-based price in place.
func (c *Calculator) sellOverride(v model.Variant, key string) (float64, bool) {
	if !c.prices.HasModelRule(v, key) {
		return 0, false
	}
	val := c.prices.ModelRule(v, key, 0)
	return val, val > 0
}
