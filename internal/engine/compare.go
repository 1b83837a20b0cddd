package engine

import (
	"fmt"

	"github.com/piwi3910/RailCraft/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings Settings
}

// ComparisonResult holds the plan and computed statistics for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Plan          model.CutPlan
	BarsUsed      int
	WastePercent  float64
	UnplacedCount int
}

// CompareScenarios plans the same pieces under each scenario, in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, pieces []model.CutPiece) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		plan := New(scenario.Settings).Plan(pieces)

		waste := 0.0
		if len(plan.Bars) > 0 {
			waste = 100.0 - plan.TotalEfficiency()
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Plan:          plan,
			BarsUsed:      len(plan.Bars),
			WastePercent:  waste,
			UnplacedCount: len(plan.Unplaced),
		})
	}

	return results
}

// BuildDefaultScenarios varies the base settings to show what-if alternatives.
func BuildDefaultScenarios(base Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	alt := base
	if base.Strategy == FirstFit {
		alt.Strategy = BestFit
	} else {
		alt.Strategy = FirstFit
	}
	scenarios = append(scenarios, ComparisonScenario{Name: alt.Strategy.String(), Settings: alt})

	if base.Kerf > 0 {
		noKerf := base
		noKerf.Kerf = 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Kerf", Settings: noKerf})
	}

	if base.StockLength < 6000 {
		long := base
		long.StockLength = 6000
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Stock %.0fmm", long.StockLength),
			Settings: long,
		})
	}

	return scenarios
}
