package pricetable

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStock means a stock code has no row in the stock items sheet.
	ErrUnknownStock = errors.New("unknown stock code")

	// ErrMissingUnitCost means a stock row has neither cost_per_m nor
	// kg_per_m and cost_per_kg.
	ErrMissingUnitCost = errors.New("no unit cost (need cost_per_m or kg_per_m + cost_per_kg)")

	// ErrFetch means a price sheet could not be retrieved.
	ErrFetch = errors.New("price sheet fetch failed")
)

// StockError ties a lookup failure to the stock code that caused it.
type StockError struct {
	Code string
	Err  error
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock %s: %v", e.Code, e.Err)
}

func (e *StockError) Unwrap() error {
	return e.Err
}
