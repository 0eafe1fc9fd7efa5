// Package ui provides the PlateLayout application UI components.
//
// This file defines a compact Fyne theme with a configurable light/dark variant.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PlateLayoutTheme wraps the default Fyne theme with compact sizing overrides
// and an optional fixed variant.
type PlateLayoutTheme struct {
	base  fyne.Theme
	fixed bool
	// variant is used only when fixed is set
	variant fyne.ThemeVariant
}

// NewPlateLayoutTheme creates a theme for the configured name: "light" and
// "dark" pin the variant, anything else follows the system.
func NewPlateLayoutTheme(name string) *PlateLayoutTheme {
	t := &PlateLayoutTheme{base: theme.DefaultTheme()}
	switch name {
	case "light":
		t.fixed, t.variant = true, theme.VariantLight
	case "dark":
		t.fixed, t.variant = true, theme.VariantDark
	}
	return t
}

// Color delegates to the base theme, overriding the variant when pinned.
func (t *PlateLayoutTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.fixed {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

// Font delegates to the base theme.
func (t *PlateLayoutTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *PlateLayoutTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *PlateLayoutTheme) Size(name fyne.ThemeSizeName) float32 {
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
