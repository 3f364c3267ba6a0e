package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/gesture"
	sbtheme "SketchBoard/internal/theme"
)

var swatchColors = []string{"#000000", "#FF0000", "#00C853", "#2962FF", "#FFD600"}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(sbtheme.Color(s.Hex, color.Black))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

func modeIcon(m gesture.Mode) fyne.Resource {
	switch m {
	case gesture.ModeDraw:
		return theme.DocumentCreateIcon()
	case gesture.ModeSelect:
		return theme.ViewFullScreenIcon()
	case gesture.ModeErase:
		return theme.ContentClearIcon()
	default:
		return theme.UploadIcon()
	}
}

// --- The Main Toolbar ---
func newToolbar(a *App) fyne.CanvasObject {
	modes := container.NewHBox()
	for _, m := range gesture.Modes {
		m := m
		btn := widget.NewButtonWithIcon(m.Label(), modeIcon(m), func() { a.setMode(m) })
		a.modeButtons[m] = btn
		modes.Add(btn)
	}

	a.themeButton = widget.NewButtonWithIcon(a.themeMode.Label(), theme.ColorPaletteIcon(), a.cycleTheme)

	colorBox := container.NewHBox()
	for _, hex := range swatchColors {
		colorBox.Add(newColorSwatch(hex, a.setInk))
	}

	widthSlider := widget.NewSlider(1, 20)
	widthSlider.SetValue(a.tr.Style().Width)
	widthSlider.OnChanged = a.setWidth
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), widthSlider)

	a.refreshModeButtons()
	return container.NewHBox(
		modes,
		widget.NewSeparator(),
		a.themeButton,
		widget.NewSeparator(),
		colorBox,
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}

func newBottomBar(a *App) fyne.CanvasObject {
	clearBtn := widget.NewButtonWithIcon("Clear All", theme.DeleteIcon(), a.confirmClear)
	clearBtn.Importance = widget.DangerImportance
	del := widget.NewButtonWithIcon("Delete Selection", theme.ContentCutIcon(), a.deleteSelection)
	pages := widget.NewButtonWithIcon("Pages", theme.ListIcon(), a.showPages)
	analyze := widget.NewButtonWithIcon("Analyze", theme.SearchIcon(), func() { a.showExportOptions(nil) })
	png := widget.NewButtonWithIcon("Save PNG", theme.DocumentSaveIcon(), a.savePNG)
	pdf := widget.NewButtonWithIcon("Save PDF", theme.DocumentSaveIcon(), a.savePDF)

	items := []fyne.CanvasObject{clearBtn, del, pages, analyze, png, pdf}
	if a.opts.ShareLink != "" {
		items = append(items, widget.NewButtonWithIcon("Share", theme.MailForwardIcon(), a.showShareLink))
	}
	items = append(items, layout.NewSpacer(), a.status)
	return container.NewHBox(items...)
}
