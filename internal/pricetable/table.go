package pricetable

import (
	"fmt"
	"strings"

	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/monitoring"
)

// Resource names one of the four price sheets.
type Resource string

const (
	ResourceStockItems Resource = "stock_items"
	ResourceProcess    Resource = "process"
	ResourceShopRate   Resource = "shop_rate"
	ResourceModelRules Resource = "model_rules"
)

// Resources lists every sheet a Table is built from.
var Resources = []Resource{ResourceStockItems, ResourceProcess, ResourceShopRate, ResourceModelRules}

// Process step names.
const (
	StepCut      = "cut"
	StepWeld     = "weld"
	StepDrill    = "drill"
	StepAssembly = "assembly"
	StepGrind    = "grind"
)

// Shop rate defaults used when the sheet leaves a rate empty.
const (
	DefaultMarginRate = 0.25
	DefaultVATRate    = 0.1
)

// StockItem is one row of the stock items sheet.
type StockItem struct {
	Code      string  `json:"stock_code"`
	Name      string  `json:"name"`
	UOM       string  `json:"uom"`
	KgPerM    float64 `json:"kg_per_m"`
	CostPerKg float64 `json:"cost_per_kg"`
	CostPerM  float64 `json:"cost_per_m"`
}

// UnitCost returns the cost per metre: the direct linear cost when set,
// otherwise weight per metre times cost per kg. 0 means no cost is known.
func (s StockItem) UnitCost() float64 {
	if s.CostPerM > 0 {
		return s.CostPerM
	}
	if s.KgPerM > 0 && s.CostPerKg > 0 {
		return s.KgPerM * s.CostPerKg
	}
	return 0
}

// StockCost is the priced length of one stock item.
type StockCost struct {
	Name     string
	CostPerM float64
	Cost     float64
}

// ProcessRule is one row of the process sheet.
type ProcessRule struct {
	Step       string  `json:"step"`
	Unit       string  `json:"unit"`
	MinPerUnit float64 `json:"min_per_unit"`
}

// ShopRate holds the shop-wide rates from the first shop_rate row.
type ShopRate struct {
	LaborCostPerMin float64 `json:"labor_cost_per_min"`
	OverheadRate    float64 `json:"overhead_rate"`
	MarginRate      float64 `json:"margin_rate_default"`
	VATRate         float64 `json:"vat_rate"`
}

// ModelRule is one per-model numeric override. Valid is false when the
// value cell was blank or not a number; such rows never match.
type ModelRule struct {
	Model string  `json:"model_code"`
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Table is the parsed, read-only price table.
type Table struct {
	stock   map[string]StockItem
	process map[string]ProcessRule
	shop    ShopRate
	rules   []ModelRule
}

// NewTable builds a table from the rows of the four sheets. Rows without a
// key are skipped; for duplicate stock codes or steps the last row wins.
func NewTable(sheets map[Resource][]Row) *Table {
	t := &Table{
		stock:   make(map[string]StockItem),
		process: make(map[string]ProcessRule),
	}

	for _, r := range sheets[ResourceStockItems] {
		code := r.Get("stock_code")
		if code == "" {
			continue
		}
		item := StockItem{
			Code:      code,
			Name:      r.Get("name"),
			UOM:       r.Get("uom"),
			KgPerM:    r.Float("kg_per_m", 0),
			CostPerKg: r.Float("cost_per_kg", 0),
			CostPerM:  r.Float("cost_per_m", 0),
		}
		if item.Name == "" {
			item.Name = code
		}
		if item.UOM == "" {
			item.UOM = "m"
		}
		t.stock[code] = item
	}

	for _, r := range sheets[ResourceProcess] {
		step := r.Get("step")
		if step == "" {
			continue
		}
		unit := r.Get("unit")
		if unit == "" {
			unit = "ea"
		}
		t.process[step] = ProcessRule{Step: step, Unit: unit, MinPerUnit: r.Float("min_per_unit", 0)}
	}

	shop := Row{}
	if rows := sheets[ResourceShopRate]; len(rows) > 0 {
		shop = rows[0]
	}
	t.shop = ShopRate{
		LaborCostPerMin: shop.Float("labor_cost_per_min", 0),
		OverheadRate:    shop.Float("overhead_rate", 0),
		MarginRate:      shop.Float("margin_rate_default", DefaultMarginRate),
		VATRate:         shop.Float("vat_rate", DefaultVATRate),
	}

	for _, r := range sheets[ResourceModelRules] {
		v, ok := r.Number("value")
		if !ok {
			monitoring.Logf("pricetable: model rule %s/%s has no numeric value, ignored", r.Get("model_code"), r.Get("key"))
		}
		t.rules = append(t.rules, ModelRule{
			Model: r.Get("model_code"),
			Key:   r.Get("key"),
			Value: v,
			Valid: ok,
		})
	}
	return t
}

// Stock returns the stock item with the given code.
func (t *Table) Stock(code string) (StockItem, error) {
	item, ok := t.stock[code]
	if !ok {
		return StockItem{}, &StockError{Code: code, Err: ErrUnknownStock}
	}
	return item, nil
}

// StockCost prices lengthMM millimetres of the stock item code. An unknown
// code or an item without a unit cost is an error naming the code.
func (t *Table) StockCost(code string, lengthMM float64) (StockCost, error) {
	item, err := t.Stock(code)
	if err != nil {
		return StockCost{}, err
	}
	perM := item.UnitCost()
	if perM <= 0 {
		return StockCost{}, &StockError{Code: code, Err: ErrMissingUnitCost}
	}
	return StockCost{Name: item.Name, CostPerM: perM, Cost: lengthMM / 1000 * perM}, nil
}

// Process returns the rule for a process step.
func (t *Table) Process(step string) (ProcessRule, bool) {
	r, ok := t.process[step]
	return r, ok
}

// ShopRate returns the shop-wide rates.
func (t *Table) ShopRate() ShopRate {
	return t.shop
}

// ModelRule returns the value of the first valid rule matching model and
// key, or fallback when none does.
func (t *Table) ModelRule(v model.Variant, key string, fallback float64) float64 {
	if r, ok := t.rule(v, key); ok {
		return r.Value
	}
	return fallback
}

// HasModelRule reports whether a valid rule matches model and key.
func (t *Table) HasModelRule(v model.Variant, key string) bool {
	_, ok := t.rule(v, key)
	return ok
}

func (t *Table) rule(v model.Variant, key string) (ModelRule, bool) {
	for _, r := range t.rules {
		if r.Valid && r.Model == string(v) && r.Key == key {
			return r, true
		}
	}
	return ModelRule{}, false
}

func (t *Table) String() string {
	return fmt.Sprintf("price table: %d stock items, %d process steps, %d model rules (%s)",
		len(t.stock), len(t.process), len(t.rules), strings.Join(processSteps(t), ","))
}

func processSteps(t *Table) []string {
	var steps []string
	for _, s := range []string{StepCut, StepWeld, StepDrill, StepAssembly, StepGrind} {
		if _, ok := t.process[s]; ok {
			steps = append(steps, s)
		}
	}
	return steps
}
