package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	sbtheme "SketchBoard/internal/theme"
)

// boardTheme maps a SketchBoard palette onto fyne's colour names and
// leaves fonts, icons and sizes to the default theme.
type boardTheme struct {
	mode sbtheme.Mode
}

var _ fyne.Theme = (*boardTheme)(nil)

func (t *boardTheme) palette(v fyne.ThemeVariant) sbtheme.Palette {
	return sbtheme.Resolve(t.mode, v == theme.VariantDark)
}

func (t *boardTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	p := t.palette(v)
	hex := ""
	switch n {
	case theme.ColorNameBackground:
		hex = p.Background
	case theme.ColorNameForeground:
		hex = p.Text
	case theme.ColorNamePrimary, theme.ColorNameFocus, theme.ColorNameHyperlink:
		hex = p.Primary
	case theme.ColorNameButton, theme.ColorNameInputBackground, theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground:
		hex = p.Surface
	case theme.ColorNameSeparator, theme.ColorNameInputBorder:
		hex = p.Border
	case theme.ColorNameError:
		hex = p.Danger
	case theme.ColorNameSuccess:
		hex = p.Success
	case theme.ColorNameSelection:
		c := sbtheme.Color(p.Selection, color.Black)
		sel := color.NRGBAModel.Convert(c).(color.NRGBA)
		sel.A = 0x40
		return sel
	}
	if hex != "" {
		return sbtheme.Color(hex, theme.DefaultTheme().Color(n, v))
	}
	return theme.DefaultTheme().Color(n, t.variant(v))
}

// variant pins fyne's own colours to the forced mode.
func (t *boardTheme) variant(v fyne.ThemeVariant) fyne.ThemeVariant {
	switch t.mode {
	case sbtheme.Light:
		return theme.VariantLight
	case sbtheme.Dark:
		return theme.VariantDark
	}
	return v
}

func (t *boardTheme) Font(s fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(s)
}

func (t *boardTheme) Icon(n fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(n)
}

func (t *boardTheme) Size(n fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(n)
}
