package ui

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/piwi3910/RailCraft/internal/export"
	"github.com/piwi3910/RailCraft/internal/gcode"
	"github.com/piwi3910/RailCraft/internal/monitoring"
)

// saveFile asks for a destination and hands its path to write.
func (a *App) saveFile(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := write(path); err != nil {
			monitoring.Logf("ui: export %s failed: %v", path, err)
			dialog.ShowError(err, a.window)
			return
		}
		monitoring.Logf("ui: exported %s", path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) requireQuote() bool {
	if a.quote == nil {
		dialog.ShowInformation("No quote", "Calculate a quote first.", a.window)
		return false
	}
	return true
}

func (a *App) exportQuotePDF() {
	if !a.requireQuote() {
		return
	}
	q, plan := *a.quote, a.plan
	a.saveFile(fmt.Sprintf("quote-%s.pdf", q.ID), func(path string) error {
		return export.ExportQuotePDF(path, q, plan)
	})
}

func (a *App) exportCutLabels() {
	if !a.requireQuote() || a.plan == nil {
		return
	}
	id, plan := a.quote.ID, *a.plan
	a.saveFile(fmt.Sprintf("labels-%s.pdf", id), func(path string) error {
		return export.ExportCutLabels(path, id, plan)
	})
}

func (a *App) exportWorkbook() {
	if !a.requireQuote() {
		return
	}
	q, plan := *a.quote, a.plan
	a.saveFile(fmt.Sprintf("bom-%s.xlsx", q.ID), func(path string) error {
		return export.ExportBOMWorkbook(path, q, plan)
	})
}

func (a *App) exportDXF() {
	scene := a.scene.Current()
	if scene.Len() == 0 {
		dialog.ShowInformation("Nothing to export", "Turn on at least one part first.", a.window)
		return
	}
	a.saveFile(fmt.Sprintf("%s-elevation.dxf", a.variant), func(path string) error {
		return export.ExportElevationDXF(path, scene)
	})
}

func (a *App) exportGCode() {
	plate, ok := gcode.PlateFor(a.design, a.layout)
	if !ok {
		dialog.ShowInformation("No base plates", "This railing has no drilled base plates.", a.window)
		return
	}
	code := a.generator().GenerateBasePlate(plate)
	a.saveFile("base-plate.gcode", func(path string) error {
		return os.WriteFile(path, []byte(code), 0o644)
	})
}
