package quote

import (
	"fmt"
	"strconv"
)

// Model rule keys read from the model rules sheet.
const (
	RuleRailAllow      = "rail_allow_mm"    // extra length per rail run
	RuleHolesPerInfill = "holes_per_infill" // fastener holes per infill piece
	RuleHolesPerPost   = "holes_per_post"   // anchor holes per post position
	RuleStockLength    = "stock_length_mm"  // bar length for cut planning
	RuleSellBeforeVAT  = "sell_before_vat"  // fixed supply price
	RuleSellTotal      = "sell_total"       // fixed price including VAT
)

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FlatBarCode returns the stock code of a flat bar section.
func FlatBarCode(width, thickness float64) string {
	return fmt.Sprintf("FB%sx%s_SS400", mm(width), mm(thickness))
}

// PipeCode returns the stock code of a round pipe.
func PipeCode(od float64) string {
	return fmt.Sprintf("PIPE%s_SS400", mm(od))
}

// SquareTubeCode returns the stock code of a 2 mm wall rectangular tube.
func SquareTubeCode(width, height float64) string {
	return fmt.Sprintf("SQ%sx%sx2_SS400", mm(width), mm(height))
}
