// Package ui provides the RailCraft application UI components.
//
// This file defines a compact Fyne theme for the dense editor layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// RailCraftTheme wraps the default Fyne theme with compact sizing overrides
// and an optional forced light/dark variant.
type RailCraftTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	forced  bool
}

// NewRailCraftTheme creates a theme following the system variant.
func NewRailCraftTheme() *RailCraftTheme {
	return &RailCraftTheme{base: theme.DefaultTheme()}
}

// NewRailCraftThemeFor creates a theme from the configured name:
// "light", "dark", or anything else for the system variant.
func NewRailCraftThemeFor(name string) *RailCraftTheme {
	t := NewRailCraftTheme()
	t.SetMode(name)
	return t
}

// SetMode switches between "light", "dark" and "system".
func (t *RailCraftTheme) SetMode(name string) {
	switch name {
	case "light":
		t.variant, t.forced = theme.VariantLight, true
	case "dark":
		t.variant, t.forced = theme.VariantDark, true
	default:
		t.forced = false
	}
}

// Color delegates to the base theme, substituting the forced variant.
func (t *RailCraftTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

// Font delegates to the base theme.
func (t *RailCraftTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *RailCraftTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *RailCraftTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
