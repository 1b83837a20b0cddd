package model

// PriceSheets holds the locations of the four price table resources.
type PriceSheets struct {
	StockItems string `json:"stock_items"`
	Process    string `json:"process"`
	ShopRate   string `json:"shop_rate"`
	ModelRules string `json:"model_rules"`
}

// Complete reports whether every resource location is set.
func (p PriceSheets) Complete() bool {
	return p.StockItems != "" && p.Process != "" && p.ShopRate != "" && p.ModelRules != ""
}

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Price table sources: a local workbook wins over the published sheet URLs
	PriceSheets   PriceSheets `json:"price_sheets"`
	PriceWorkbook string      `json:"price_workbook"` // .xlsx with one worksheet per resource

	// Editing behaviour
	DebounceMillis int     `json:"debounce_ms"`     // Delay before a rebuild after input changes
	DefaultVariant Variant `json:"default_variant"` // Product shown at startup
	DefaultColor   string  `json:"default_color"`   // "#rrggbb"

	// Cut planning
	StockBarLength float64 `json:"stock_bar_length"` // mm
	KerfWidth      float64 `json:"kerf_width"`       // mm
	BestFit        bool    `json:"best_fit"`         // Best-fit instead of first-fit bar selection

	// Base plate drilling defaults
	Drill DrillSettings `json:"drill"`

	Theme string `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DebounceMillis: 60,
		DefaultVariant: VariantFlatBar,
		DefaultColor:   HexColor(DefaultColor),
		StockBarLength: 6000,
		KerfWidth:      2.0,
		Drill:          DefaultDrillSettings(),
		Theme:          "system",
	}
}

// UsesWorkbook reports whether the price table should be read from the local workbook.
func (c AppConfig) UsesWorkbook() bool {
	return c.PriceWorkbook != ""
}

// ApplyToDesign copies the display defaults into a fresh design.
func (c AppConfig) ApplyToDesign(d *Design) {
	if c.DefaultColor != "" {
		if col, err := ParseHexColor(c.DefaultColor); err == nil {
			d.Color = HexColor(col)
		}
	}
}
