package model

import (
	"time"

	"github.com/google/uuid"
)

// BOMLine is one priced material line.
type BOMLine struct {
	Label     string  `json:"label"`
	StockCode string  `json:"stock_code"`
	Name      string  `json:"name"`      // Stock item name from the price table
	Length    float64 `json:"length_mm"` // Total length (mm)
	Quantity  int     `json:"qty"`       // Number of pieces the length is made of
	CostPerM  float64 `json:"cost_per_m"`
	Cost      float64 `json:"cost"`
}

// CutPiece is one discrete fabricated piece.
type CutPiece struct {
	Label     string  `json:"label"`
	StockCode string  `json:"stock_code"`
	Length    float64 `json:"length_mm"`
	Section   int     `json:"section"` // -1 for post pieces
	Post      int     `json:"post"`    // -1 for section pieces
}

// ProcessMetrics are the fabrication quantities labor is estimated from.
type ProcessMetrics struct {
	Cuts          int     `json:"cuts"`
	WeldLength    float64 `json:"weld_m"`  // metres
	GrindLength   float64 `json:"grind_m"` // metres
	HoleCount     int     `json:"holes"`
	AssemblyCount int     `json:"assembly_ea"`
	LaborMinutes  float64 `json:"labor_minutes"`
}

// Pricing is the cost roll-up. Supply, VAT and Total are whole currency units.
type Pricing struct {
	MaterialCost float64 `json:"material_cost"`
	LaborCost    float64 `json:"labor_cost"`
	OverheadCost float64 `json:"overhead_cost"`
	CostTotal    float64 `json:"cost_total"`
	SupplyPrice  float64 `json:"sell_before_vat"`
	VAT          float64 `json:"vat"`
	Total        float64 `json:"sell_total"`
	MarginRate   float64 `json:"margin_rate"`
	VATRate      float64 `json:"vat_rate"`
	Overridden   bool    `json:"overridden"` // Sell values came from the price table
}

// QuoteSummary carries the layout counts the quote was derived from.
type QuoteSummary struct {
	Length      float64 `json:"length_mm"`
	Height      float64 `json:"height_mm"`
	Sections    int     `json:"sections"`
	Interval    float64 `json:"interval_mm"`
	PostCount   int     `json:"post_positions"`
	PostPipes   int     `json:"post_pipes"`
	InfillCount int     `json:"infill_count"`
}

// Quote is the full output of a quote calculation and the sole input of the exporters.
type Quote struct {
	ID        string         `json:"id"`
	Model     Variant        `json:"model"`
	CreatedAt time.Time      `json:"created_at"`
	Summary   QuoteSummary   `json:"summary"`
	BOM       []BOMLine      `json:"bom"`
	Pieces    []CutPiece     `json:"pieces"`
	Process   ProcessMetrics `json:"process"`
	Pricing   Pricing        `json:"pricing"`

	// StockLength is the bar length the price table asks cut planning to
	// use; 0 means the configured default.
	StockLength float64 `json:"stock_length_mm,omitempty"`
}

// NewQuote returns an empty quote with a fresh quote number.
func NewQuote(v Variant) Quote {
	return Quote{
		ID:        uuid.New().String()[:8],
		Model:     v,
		CreatedAt: time.Now(),
	}
}

// MaterialTotal sums the BOM line costs.
func (q Quote) MaterialTotal() float64 {
	var total float64
	for _, l := range q.BOM {
		total += l.Cost
	}
	return total
}
