// RailCraft - Railing Designer & Quotation
//
// A desktop application for designing parametric steel railings with a
// live elevation view, priced bill of materials, cut planning and
// quote documents.
//
// Build:
//   go build -o railcraft ./cmd/railcraft
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o railcraft.exe ./cmd/railcraft
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/RailCraft/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.railcraft")
	window := application.NewWindow("RailCraft - Railing Designer & Quotation")

	appUI := ui.NewApp(application, window, nil)
	application.Settings().SetTheme(appUI.Theme())

	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
