package model

// CutPlacement is one piece placed on a stock bar.
type CutPlacement struct {
	Piece  CutPiece `json:"piece"`
	Offset float64  `json:"offset"` // Distance from the bar start (mm)
}

// BarResult is one stock bar with the pieces cut from it.
type BarResult struct {
	StockCode  string         `json:"stock_code"`
	Length     float64        `json:"length"`
	Placements []CutPlacement `json:"placements"`
}

// UsedLength returns the total piece length cut from the bar.
func (b BarResult) UsedLength() float64 {
	var total float64
	for _, p := range b.Placements {
		total += p.Piece.Length
	}
	return total
}

// Efficiency returns the usage percentage.
func (b BarResult) Efficiency() float64 {
	if b.Length == 0 {
		return 0
	}
	return (b.UsedLength() / b.Length) * 100.0
}

// CutPlan holds the full bar cutting solution.
type CutPlan struct {
	Bars     []BarResult `json:"bars"`
	Unplaced []CutPiece  `json:"unplaced"` // Pieces longer than a stock bar
}

// TotalEfficiency returns overall material usage percentage.
func (cp CutPlan) TotalEfficiency() float64 {
	var used, total float64
	for _, b := range cp.Bars {
		used += b.UsedLength()
		total += b.Length
	}
	if total == 0 {
		return 0
	}
	return (used / total) * 100.0
}

// BarsByCode counts the stock bars needed per stock code.
func (cp CutPlan) BarsByCode() map[string]int {
	counts := make(map[string]int)
	for _, b := range cp.Bars {
		counts[b.StockCode]++
	}
	return counts
}
