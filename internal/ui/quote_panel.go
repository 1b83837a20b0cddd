package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RailCraft/internal/engine"
	"github.com/piwi3910/RailCraft/internal/export"
	"github.com/piwi3910/RailCraft/internal/gcode"
	raillayout "github.com/piwi3910/RailCraft/internal/layout"
	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/monitoring"
	"github.com/piwi3910/RailCraft/internal/pricetable"
	"github.com/piwi3910/RailCraft/internal/quote"
	"github.com/piwi3910/RailCraft/internal/ui/widgets"
)

const (
	priceFetchTimeout = 20 * time.Second
	priceLoadTimeout  = 30 * time.Second
)

// calculateQuote prices d against the (cached) price table and plans the
// stock bars of its cut pieces.
func calculateQuote(ctx context.Context, prices *pricetable.Client, d model.Design, cfg model.AppConfig) (model.Quote, model.CutPlan, error) {
	table, err := prices.Load(ctx)
	if err != nil {
		return model.Quote{}, model.CutPlan{}, err
	}
	q, err := quote.New(table).Calculate(d)
	if err != nil {
		return model.Quote{}, model.CutPlan{}, fmt.Errorf("calculate quote: %w", err)
	}
	plan := engine.New(engine.SettingsFromConfig(cfg, q.StockLength)).PlanQuote(q)
	return q, plan, nil
}

// requestQuote quotes the current design in the background. Only the
// latest request is shown; interactive requests report failures in a dialog.
func (a *App) requestQuote(interactive bool) {
	d := a.design
	cfg := a.config
	prices := a.prices
	gen := a.quoteGen.Add(1)

	if !prices.Loaded() {
		a.statusLabel.SetText("Loading price table...")
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), priceLoadTimeout)
		defer cancel()

		q, plan, err := calculateQuote(ctx, prices, d, cfg)
		fyne.Do(func() {
			if a.quoteGen.Load() != gen {
				return
			}
			if err != nil {
				monitoring.Logf("ui: quote failed: %v", err)
				a.statusLabel.SetText("Quote failed: " + err.Error())
				if interactive {
					dialog.ShowError(err, a.window)
				}
				return
			}
			a.quote, a.plan = &q, &plan
			a.refreshQuote()
		})
	}()
}

// reloadPrices drops the cached price table and re-quotes.
func (a *App) reloadPrices() {
	a.prices.Invalidate()
	a.requestQuote(true)
}

func (a *App) clearQuote() {
	a.quoteGen.Add(1)
	a.quote, a.plan = nil, nil
	a.refreshQuote()
}

func (a *App) refreshQuote() {
	a.quoteContainer.RemoveAll()
	a.planContainer.RemoveAll()
	if a.quote == nil {
		a.quoteContainer.Add(widget.NewLabel("No quote yet. Click Calculate Quote."))
		a.planContainer.Add(widgets.RenderCutPlan(nil))
	} else {
		a.quoteContainer.Add(renderQuote(*a.quote, a.plan, engine.SettingsFromConfig(a.config, a.quote.StockLength)))
		a.planContainer.Add(widgets.RenderCutPlan(a.plan))
	}
	a.quoteContainer.Refresh()
	a.planContainer.Refresh()
}

func boldLabel(text string) *widget.Label {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

// renderQuote lays out the BOM, process metrics, pricing and a cut planning
// comparison of one quote.
func renderQuote(q model.Quote, plan *model.CutPlan, settings engine.Settings) fyne.CanvasObject {
	s := q.Summary
	header := boldLabel(fmt.Sprintf("Quote %s - %s, %s", q.ID, q.Model, q.CreatedAt.Format("2006-01-02 15:04")))
	summary := widget.NewLabel(fmt.Sprintf(
		"%.0f x %.0f mm, %d sections @ %.0f mm, %d post positions (%d pipes), %d infill",
		s.Length, s.Height, s.Sections, s.Interval, s.PostCount, s.PostPipes, s.InfillCount,
	))

	bom := container.NewGridWithColumns(6,
		boldLabel("Item"), boldLabel("Stock"), boldLabel("Length (mm)"),
		boldLabel("Qty"), boldLabel("Per m"), boldLabel("Cost"),
	)
	for _, l := range q.BOM {
		bom.Add(widget.NewLabel(l.Label))
		bom.Add(widget.NewLabel(l.StockCode))
		bom.Add(widget.NewLabel(fmt.Sprintf("%.0f", l.Length)))
		bom.Add(widget.NewLabel(fmt.Sprintf("%d", l.Quantity)))
		bom.Add(widget.NewLabel(export.FormatWon(l.CostPerM)))
		bom.Add(widget.NewLabel(export.FormatWon(l.Cost)))
	}

	m := q.Process
	process := widget.NewCard("Process", "", container.NewGridWithColumns(2,
		widget.NewLabel("Cuts"), widget.NewLabel(fmt.Sprintf("%d", m.Cuts)),
		widget.NewLabel("Weld length"), widget.NewLabel(fmt.Sprintf("%.2f m", m.WeldLength)),
		widget.NewLabel("Grind length"), widget.NewLabel(fmt.Sprintf("%.2f m", m.GrindLength)),
		widget.NewLabel("Holes"), widget.NewLabel(fmt.Sprintf("%d", m.HoleCount)),
		widget.NewLabel("Assembly"), widget.NewLabel(fmt.Sprintf("%d ea", m.AssemblyCount)),
		widget.NewLabel("Labor"), widget.NewLabel(fmt.Sprintf("%.0f min", m.LaborMinutes)),
	))

	p := q.Pricing
	supplyLabel := "Supply price"
	if p.Overridden {
		supplyLabel = "Supply price (price table)"
	}
	total := boldLabel(export.FormatWon(p.Total))
	pricing := widget.NewCard("Pricing", "", container.NewGridWithColumns(2,
		widget.NewLabel("Material"), widget.NewLabel(export.FormatWon(p.MaterialCost)),
		widget.NewLabel("Labor"), widget.NewLabel(export.FormatWon(p.LaborCost)),
		widget.NewLabel("Overhead"), widget.NewLabel(export.FormatWon(p.OverheadCost)),
		widget.NewLabel("Cost total"), widget.NewLabel(export.FormatWon(p.CostTotal)),
		widget.NewLabel(supplyLabel), widget.NewLabel(export.FormatWon(p.SupplyPrice)),
		widget.NewLabel(fmt.Sprintf("VAT (%.0f%%)", p.VATRate*100)), widget.NewLabel(export.FormatWon(p.VAT)),
		boldLabel("Total"), total,
	))

	items := []fyne.CanvasObject{
		header, summary, widget.NewSeparator(),
		boldLabel("Bill of Materials"), bom,
		process, pricing,
	}
	if plan != nil && len(q.Pieces) > 0 {
		items = append(items, renderComparison(q.Pieces, settings))
	}
	return container.NewVScroll(container.NewVBox(items...))
}

// renderComparison shows how the bar count changes under alternative
// cut planning settings.
func renderComparison(pieces []model.CutPiece, settings engine.Settings) fyne.CanvasObject {
	grid := container.NewGridWithColumns(4,
		boldLabel("Scenario"), boldLabel("Bars"), boldLabel("Waste"), boldLabel("Unplaced"),
	)
	for _, r := range engine.CompareScenarios(engine.BuildDefaultScenarios(settings), pieces) {
		grid.Add(widget.NewLabel(r.Scenario.Name))
		grid.Add(widget.NewLabel(fmt.Sprintf("%d", r.BarsUsed)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%.1f%%", r.WastePercent)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%d", r.UnplacedCount)))
	}
	return widget.NewCard("Cut Planning", "", grid)
}

func (a *App) generator() *gcode.Generator {
	return gcode.NewWithProfiles(a.config.Drill, a.profiles)
}

func renderPlatePanel(d model.Design, l raillayout.Layout, g *gcode.Generator) fyne.CanvasObject {
	plate, ok := gcode.PlateFor(d, l)
	if !ok {
		return widget.NewLabel("This railing has no drilled base plates.")
	}
	return widgets.RenderPlatePreview(plate, g)
}
