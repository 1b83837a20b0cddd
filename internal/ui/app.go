// Package ui provides the RailCraft desktop application: the parameter
// editor, the elevation view, the quote panel and the export menu.
package ui

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RailCraft/internal/geometry"
	raillayout "github.com/piwi3910/RailCraft/internal/layout"
	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/monitoring"
	"github.com/piwi3910/RailCraft/internal/pricetable"
	"github.com/piwi3910/RailCraft/internal/project"
	"github.com/piwi3910/RailCraft/internal/render"
	"github.com/piwi3910/RailCraft/internal/schedule"
	"github.com/piwi3910/RailCraft/internal/ui/widgets"
)

// App holds all application state and UI references. Every field is owned
// by the UI goroutine; background work hands results back through fyne.Do.
type App struct {
	app      fyne.App
	window   fyne.Window
	theme    *RailCraftTheme
	config   model.AppConfig
	profiles []model.GCodeProfile

	// Editor state
	variant model.Variant
	vis     model.Visibility
	params  *paramForm
	design  model.Design
	layout  raillayout.Layout
	syncing bool

	// Rebuild pipeline: input change -> debounce -> one rebuild per frame
	canvas   *widgets.RailingCanvas
	scene    *render.Scene
	rebuilds *schedule.Debouncer
	frames   *schedule.Coalescer

	// Quoting
	prices   *pricetable.Client
	quoteGen atomic.Uint64
	quote    *model.Quote
	plan     *model.CutPlan

	// UI references for dynamic updates
	tabs            *container.AppTabs
	variantSelect   *widget.Select
	formContainer   *fyne.Container
	toggleContainer *fyne.Container
	toggles         map[model.Part]*widget.Check
	stepLabel       *widget.Label
	statusLabel     *widget.Label
	quoteContainer  *fyne.Container
	planContainer   *fyne.Container
	plateContainer  *fyne.Container
}

// NewApp creates the application state, loading the persisted config and
// custom GCode profiles. Load failures fall back to defaults.
func NewApp(application fyne.App, window fyne.Window, th *RailCraftTheme) *App {
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		monitoring.Logf("ui: %v, using defaults", err)
		cfg = model.DefaultAppConfig()
	}
	profiles, err := project.LoadCustomProfiles(project.DefaultProfilesPath())
	if err != nil {
		monitoring.Logf("ui: %v", err)
	}
	if th == nil {
		th = NewRailCraftThemeFor(cfg.Theme)
	}

	a := &App{
		app:      application,
		window:   window,
		theme:    th,
		config:   cfg,
		profiles: profiles,
		variant:  cfg.DefaultVariant,
	}
	a.canvas = widgets.NewRailingCanvas(640, 360)
	a.scene = render.NewScene(a.canvas)
	a.frames = schedule.NewCoalescer(fyne.Do)
	a.rebuilds = a.newDebouncer()
	a.prices = a.newPriceClient()
	return a
}

// Config returns the active application config.
func (a *App) Config() model.AppConfig {
	return a.config
}

// Theme returns the theme the settings dialog switches between variants.
func (a *App) Theme() *RailCraftTheme {
	return a.theme
}

func (a *App) newDebouncer() *schedule.Debouncer {
	delay := time.Duration(a.config.DebounceMillis) * time.Millisecond
	return schedule.NewDebouncer(nil, delay, func() {
		a.frames.Request(a.rebuild)
	})
}

func (a *App) newPriceClient() *pricetable.Client {
	c := pricetable.NewClient(pricetable.SourceFor(a.config, &http.Client{Timeout: priceFetchTimeout}))
	c.SetTimeout(priceLoadTimeout)
	return c
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export Quote PDF...", a.exportQuotePDF),
		fyne.NewMenuItem("Export Cut Labels...", a.exportCutLabels),
		fyne.NewMenuItem("Export BOM Workbook...", a.exportWorkbook),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Elevation DXF...", a.exportDXF),
		fyne.NewMenuItem("Export Base Plate GCode...", a.exportGCode),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Reset Parameters", func() {
			a.params.Reset()
		}),
		fyne.NewMenuItem("Show All Parts", func() {
			a.setVisibility(a.vis.WithStep(a.vis.MaxStep()))
		}),
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Calculate Quote", func() {
			a.requestQuote(true)
			a.tabs.SelectIndex(0)
		}),
		fyne.NewMenuItem("Reload Price Table", a.reloadPrices),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import GCode Profile...", a.importProfile),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About RailCraft",
		"RailCraft - Railing Designer & Quotation\n\n"+
			"Parametric steel railing design with live elevation,\n"+
			"bill of materials, cut planning and quote documents.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	names := make([]string, len(model.Variants))
	for i, v := range model.Variants {
		names[i] = v.String()
	}
	a.variantSelect = widget.NewSelect(names, func(selected string) {
		for _, v := range model.Variants {
			if v.String() == selected && v != a.variant {
				a.setVariant(v)
			}
		}
	})

	a.formContainer = container.NewVBox()
	a.toggleContainer = container.NewVBox()
	a.stepLabel = widget.NewLabel("")
	a.statusLabel = widget.NewLabel("")

	editor := container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Product", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			a.variantSelect,
		),
		container.NewVBox(
			widget.NewSeparator(),
			widget.NewLabelWithStyle("Parts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			a.toggleContainer,
			a.buildStepControls(),
			widget.NewButtonWithIcon("Calculate Quote", theme.ConfirmIcon(), func() {
				a.requestQuote(true)
				a.tabs.SelectIndex(0)
			}),
		),
		nil, nil,
		container.NewVScroll(a.formContainer),
	)

	a.quoteContainer = container.NewStack(widget.NewLabel("No quote yet. Click Calculate Quote."))
	a.planContainer = container.NewStack(widgets.RenderCutPlan(nil))
	a.plateContainer = container.NewStack()

	a.tabs = container.NewAppTabs(
		container.NewTabItem("Quote", a.quoteContainer),
		container.NewTabItem("Cut Plan", a.planContainer),
		container.NewTabItem("Base Plate", a.plateContainer),
	)

	view := container.NewBorder(nil, a.statusLabel, nil, nil, a.canvas)
	right := container.NewVSplit(view, a.tabs)
	right.SetOffset(0.55)

	split := container.NewHSplit(editor, right)
	split.SetOffset(0.25)

	a.window.SetOnClosed(a.Shutdown)

	a.variantSelect.SetSelected(a.variant.String())
	if a.params == nil {
		a.setVariant(a.variant)
	}
	return split
}

// Shutdown stops pending rebuilds and releases the displayed scene.
func (a *App) Shutdown() {
	a.rebuilds.Stop()
	a.scene.Release()
}

func (a *App) buildStepControls() fyne.CanvasObject {
	prev := newIconButtonWithTooltip(theme.NavigateBackIcon(), "Previous build step", func() {
		a.setVisibility(a.vis.PrevStep())
	})
	next := newIconButtonWithTooltip(theme.NavigateNextIcon(), "Next build step", func() {
		a.setVisibility(a.vis.NextStep())
	})
	reset := newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Back to step 0", func() {
		a.setVisibility(a.vis.WithStep(0))
	})
	return container.NewHBox(prev, a.stepLabel, next, layout.NewSpacer(), reset)
}

// setVariant switches the product line: a fresh form with the variant's
// defaults, its initial part visibility, and no quote.
func (a *App) setVariant(v model.Variant) {
	color := a.config.DefaultColor
	if a.params != nil {
		color = a.params.color.Text
	}

	a.variant = v
	a.vis = model.NewVisibility(v)
	a.params = newParamForm(model.FieldsFor(v), color, a.scheduleRebuild)
	a.formContainer.Objects = []fyne.CanvasObject{a.params.form}
	a.formContainer.Refresh()

	a.toggles = make(map[model.Part]*widget.Check)
	a.toggleContainer.RemoveAll()
	for _, p := range model.BuildOrder(v) {
		part := p
		check := widget.NewCheck(part.String(), func(bool) {
			if a.syncing {
				return
			}
			a.setVisibility(a.vis.Toggled(part))
		})
		a.toggles[part] = check
		a.toggleContainer.Add(check)
	}

	a.clearQuote()
	a.syncVisibility()
	a.rebuild()
}

func (a *App) setVisibility(vis model.Visibility) {
	a.vis = vis
	a.syncVisibility()
	a.scheduleRebuild()
}

// syncVisibility shows the part flags in the checks; the flags, not the
// step, are what the checks reflect.
func (a *App) syncVisibility() {
	a.syncing = true
	defer func() { a.syncing = false }()
	for p, check := range a.toggles {
		check.SetChecked(a.vis.Shows(p))
	}
	a.stepLabel.SetText(fmt.Sprintf("Step %d / %d", a.vis.Step, a.vis.MaxStep()))
}

func (a *App) scheduleRebuild() {
	a.rebuilds.Trigger()
}

// rebuild reads the form, derives the layout and replaces the scene.
// It runs on the UI goroutine.
func (a *App) rebuild() {
	a.design = model.ReadDesign(a.variant, a.params, a.vis)
	scene, l := geometry.BuildDesign(a.design)
	a.layout = l
	a.scene.Replace(scene)

	a.statusLabel.SetText(fmt.Sprintf(
		"%s: %.0f x %.0f mm, %d sections, %d posts, %d infill, %d primitives",
		a.variant, l.Length, l.Height, l.NumSections, l.PostCount(), l.InfillCount(), scene.Len(),
	))
	a.refreshPlate()

	if a.quote != nil && a.prices.Loaded() {
		a.requestQuote(false)
	}
}

func (a *App) refreshPlate() {
	a.plateContainer.RemoveAll()
	a.plateContainer.Add(renderPlatePanel(a.design, a.layout, a.generator()))
	a.plateContainer.Refresh()
}
