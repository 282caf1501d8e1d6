package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/collin12121212/DewLoader/pkg/config"
	"github.com/collin12121212/DewLoader/pkg/registry"
)

// Mod state colors, matching the status dots in the list. Shared by both
// theme variants so a disabled mod reads as red on light and dark alike.
var (
	colorEnabled  = color.NRGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}
	colorDisabled = color.NRGBA{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF}
	colorConflict = color.NRGBA{R: 0xFF, G: 0xA7, B: 0x26, A: 0xFF}
)

// forcedVariant pins a theme to one variant regardless of what the OS
// reports, so the "dark" and "light" settings override the desktop.
type forcedVariant struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (f *forcedVariant) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return f.Theme.Color(name, f.variant)
}

// themeForSetting maps a config theme value to a fyne theme. Unknown
// values fall back to dark, the same default config normalization uses.
func themeForSetting(setting string) fyne.Theme {
	switch setting {
	case config.ThemeLight:
		return &forcedVariant{Theme: theme.DefaultTheme(), variant: theme.VariantLight}
	case config.ThemeSystem:
		return theme.DefaultTheme()
	default:
		return &forcedVariant{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
	}
}

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusOK
	statusError
)

// statusColor picks the color for the status line. Info follows the theme
// foreground so it stays readable in both variants.
func statusColor(level statusLevel) color.Color {
	switch level {
	case statusOK:
		return colorEnabled
	case statusError:
		return colorDisabled
	default:
		return theme.Color(theme.ColorNameForeground)
	}
}

func stateColor(m registry.Mod) color.Color {
	switch {
	case m.Conflict:
		return colorConflict
	case m.Enabled:
		return colorEnabled
	}
	return colorDisabled
}
