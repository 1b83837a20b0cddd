package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	textEntry := func(val *string, placeholder string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(*val)
		e.SetPlaceHolder(placeholder)
		e.OnChanged = func(text string) { *val = text }
		return e
	}

	variantNames := make([]string, len(model.Variants))
	for i, v := range model.Variants {
		variantNames[i] = v.String()
	}
	variantSelect := widget.NewSelect(variantNames, func(selected string) {
		for _, v := range model.Variants {
			if v.String() == selected {
				cfg.DefaultVariant = v
			}
		}
	})
	variantSelect.SetSelected(cfg.DefaultVariant.String())

	profileSelect := widget.NewSelect(a.profileNames(), func(selected string) {
		cfg.Drill.GCodeProfile = selected
	})
	profileSelect.SetSelected(cfg.Drill.GCodeProfile)

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	bestFit := widget.NewCheck("Best fit", func(b bool) { cfg.BestFit = b })
	bestFit.Checked = cfg.BestFit

	const sheetHint = "https://.../pub?output=csv"
	formItems := []*widget.FormItem{
		widget.NewFormItem("Price Workbook (.xlsx)", textEntry(&cfg.PriceWorkbook, "overrides the sheet URLs")),
		widget.NewFormItem("Stock Items URL", textEntry(&cfg.PriceSheets.StockItems, sheetHint)),
		widget.NewFormItem("Process URL", textEntry(&cfg.PriceSheets.Process, sheetHint)),
		widget.NewFormItem("Shop Rate URL", textEntry(&cfg.PriceSheets.ShopRate, sheetHint)),
		widget.NewFormItem("Model Rules URL", textEntry(&cfg.PriceSheets.ModelRules, sheetHint)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Default Product", variantSelect),
		widget.NewFormItem("Default Color", textEntry(&cfg.DefaultColor, "#rrggbb")),
		widget.NewFormItem("Rebuild Delay (ms)", intEntry(&cfg.DebounceMillis)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Stock Bar Length (mm)", floatEntry(&cfg.StockBarLength)),
		widget.NewFormItem("Saw Kerf (mm)", floatEntry(&cfg.KerfWidth)),
		widget.NewFormItem("Bar Selection", bestFit),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("GCode Profile", profileSelect),
		widget.NewFormItem("Drill Diameter (mm, 0=hole)", floatEntry(&cfg.Drill.ToolDiameter)),
		widget.NewFormItem("Feed Rate (mm/min)", floatEntry(&cfg.Drill.FeedRate)),
		widget.NewFormItem("Spindle Speed (RPM)", intEntry(&cfg.Drill.SpindleSpeed)),
		widget.NewFormItem("Safe Z (mm)", floatEntry(&cfg.Drill.SafeZ)),
		widget.NewFormItem("Retract Z (mm)", floatEntry(&cfg.Drill.RetractZ)),
		widget.NewFormItem("Peck Depth (mm, 0=single)", floatEntry(&cfg.Drill.PeckDepth)),
		widget.NewFormItem("Breakthrough (mm)", floatEntry(&cfg.Drill.Breakthrough)),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if err := a.applyConfig(cfg); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(560, 720))
	d.Show()
}

// applyConfig saves cfg and swaps out whatever depends on a changed field.
func (a *App) applyConfig(cfg model.AppConfig) error {
	if cfg.DebounceMillis < 0 {
		cfg.DebounceMillis = 0
	}
	prev := a.config
	a.config = cfg

	if cfg.PriceWorkbook != prev.PriceWorkbook || cfg.PriceSheets != prev.PriceSheets {
		a.prices = a.newPriceClient()
	}
	if cfg.DebounceMillis != prev.DebounceMillis {
		a.rebuilds.Stop()
		a.rebuilds = a.newDebouncer()
	}
	if cfg.Theme != prev.Theme {
		a.theme.SetMode(cfg.Theme)
		a.app.Settings().SetTheme(a.theme)
	}

	a.refreshPlate()
	if a.quote != nil {
		a.requestQuote(false)
	}
	return a.saveConfig()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}

// profileNames lists the built-in profiles followed by the custom ones.
func (a *App) profileNames() []string {
	names := model.GetProfileNames()
	for _, p := range a.profiles {
		names = append(names, p.Name)
	}
	return names
}

// importProfile adds a GCode profile from a JSON file, replacing a custom
// profile of the same name.
func (a *App) importProfile() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		profile, err := project.ImportProfile(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.profiles = upsertProfile(a.profiles, profile)
		if err := project.SaveCustomProfiles(project.DefaultProfilesPath(), a.profiles); err != nil {
			dialog.ShowError(fmt.Errorf("failed to save profiles: %w", err), a.window)
			return
		}
		dialog.ShowInformation("Profile Imported",
			fmt.Sprintf("GCode profile %q is available in Settings.", profile.Name), a.window)
	}, a.window)
	d.Show()
}

func upsertProfile(profiles []model.GCodeProfile, p model.GCodeProfile) []model.GCodeProfile {
	for i := range profiles {
		if profiles[i].Name == p.Name {
			profiles[i] = p
			return profiles
		}
	}
	return append(profiles, p)
}
