package engine

import (
	"sort"

	"github.com/piwi3910/RailCraft/internal/model"
)

// Strategy selects how pieces are assigned to open bars.
type Strategy int

const (
	// FirstFit puts each piece on the first open bar it fits on.
	FirstFit Strategy = iota
	// BestFit puts each piece on the open bar it leaves the least offcut on.
	BestFit
)

func (s Strategy) String() string {
	if s == BestFit {
		return "Best fit"
	}
	return "First fit"
}

// Settings configures the bar cut planner.
type Settings struct {
	StockLength float64  // Length of one stock bar (mm)
	Kerf        float64  // Saw blade width lost between pieces (mm)
	Strategy    Strategy // Bar selection rule
}

// SettingsFromConfig builds planner settings from the application config.
// A positive stock length from the price table wins over the configured one.
func SettingsFromConfig(cfg model.AppConfig, quoteStockLength float64) Settings {
	s := Settings{StockLength: cfg.StockBarLength, Kerf: cfg.KerfWidth}
	if cfg.BestFit {
		s.Strategy = BestFit
	}
	if quoteStockLength > 0 {
		s.StockLength = quoteStockLength
	}
	return s
}

// Planner runs the 1D bar cutting algorithm.
type Planner struct {
	Settings Settings
}

func New(settings Settings) *Planner {
	return &Planner{Settings: settings}
}

// Plan packs the pieces onto stock bars. Pieces are only ever combined on
// a bar with pieces of the same stock code. Pieces longer than a stock bar
// are returned as unplaced.
func (p *Planner) Plan(pieces []model.CutPiece) model.CutPlan {
	combined := model.CutPlan{}
	for _, g := range groupByStock(pieces) {
		groupPlan := p.planGroup(g.code, g.pieces)
		combined.Bars = append(combined.Bars, groupPlan.Bars...)
		combined.Unplaced = append(combined.Unplaced, groupPlan.Unplaced...)
	}
	return combined
}

// PlanQuote plans the cut pieces of a quote.
func (p *Planner) PlanQuote(q model.Quote) model.CutPlan {
	return p.Plan(q.Pieces)
}

// stockGroup holds the pieces cut from a single stock code.
type stockGroup struct {
	code   string
	pieces []model.CutPiece
}

// groupByStock splits pieces by stock code, ordered by code so the plan
// is deterministic.
func groupByStock(pieces []model.CutPiece) []stockGroup {
	byCode := make(map[string][]model.CutPiece)
	for _, pc := range pieces {
		byCode[pc.StockCode] = append(byCode[pc.StockCode], pc)
	}

	codes := make([]string, 0, len(byCode))
	for c := range byCode {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	groups := make([]stockGroup, 0, len(codes))
	for _, c := range codes {
		groups = append(groups, stockGroup{code: c, pieces: byCode[c]})
	}
	return groups
}

// openBar tracks the running state of a bar while packing.
type openBar struct {
	result model.BarResult
	cursor float64 // Offset where the next piece would start
}

// remaining is the length still available for a piece, accounting for
// the kerf in front of it.
func (b *openBar) remaining(kerf float64) float64 {
	if len(b.result.Placements) == 0 {
		return b.result.Length
	}
	return b.result.Length - b.cursor - kerf
}

func (b *openBar) place(pc model.CutPiece, kerf float64) {
	offset := 0.0
	if len(b.result.Placements) > 0 {
		offset = b.cursor + kerf
	}
	b.result.Placements = append(b.result.Placements, model.CutPlacement{Piece: pc, Offset: offset})
	b.cursor = offset + pc.Length
}

func (p *Planner) planGroup(code string, pieces []model.CutPiece) model.CutPlan {
	const eps = 1e-9

	// Longest first, label then index order for ties
	sorted := make([]model.CutPiece, len(pieces))
	copy(sorted, pieces)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Length != sorted[j].Length {
			return sorted[i].Length > sorted[j].Length
		}
		return sorted[i].Label < sorted[j].Label
	})

	kerf := p.Settings.Kerf
	var bars []*openBar
	var unplaced []model.CutPiece

	for _, pc := range sorted {
		if pc.Length <= 0 {
			continue
		}
		if pc.Length > p.Settings.StockLength+eps {
			unplaced = append(unplaced, pc)
			continue
		}

		target := p.selectBar(bars, pc.Length, kerf)
		if target == nil {
			target = &openBar{result: model.BarResult{StockCode: code, Length: p.Settings.StockLength}}
			bars = append(bars, target)
		}
		target.place(pc, kerf)
	}

	plan := model.CutPlan{Unplaced: unplaced}
	for _, b := range bars {
		plan.Bars = append(plan.Bars, b.result)
	}
	return plan
}

// selectBar returns the open bar the piece should go on, or nil when a new
// bar is needed.
func (p *Planner) selectBar(bars []*openBar, length, kerf float64) *openBar {
	const eps = 1e-9

	var best *openBar
	bestLeft := 0.0
	for _, b := range bars {
		left := b.remaining(kerf) - length
		if left < -eps {
			continue
		}
		if p.Settings.Strategy == FirstFit {
			return b
		}
		if best == nil || left < bestLeft {
			best = b
			bestLeft = left
		}
	}
	return best
}

// Offcut returns the unused length at the end of a bar.
func Offcut(b model.BarResult) float64 {
	if len(b.Placements) == 0 {
		return b.Length
	}
	last := b.Placements[len(b.Placements)-1]
	left := b.Length - (last.Offset + last.Piece.Length)
	if left < 0 {
		return 0
	}
	return left
}
