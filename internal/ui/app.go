package ui

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/config"
	"SketchBoard/internal/export"
	"SketchBoard/internal/gesture"
	"SketchBoard/internal/logger"
	"SketchBoard/internal/state"
	sbtheme "SketchBoard/internal/theme"
)

const themePrefKey = "theme-mode"

type Options struct {
	Title     string
	Config    *config.Config
	Pages     *state.Collection
	Pipeline  *export.Pipeline
	ShareLink string
	Log       *logger.Logger
}

// App is the main window: toolbar on top, the board in the middle and page
// and export actions along the bottom.
type App struct {
	fyne  fyne.App
	win   fyne.Window
	opts  Options
	log   *logger.Logger
	pages *state.Collection
	tr    *gesture.Translator
	board *BoardWidget

	themeMode   sbtheme.Mode
	ink         string
	status      *widget.Label
	themeButton *widget.Button
	modeButtons map[gesture.Mode]*widget.Button
	cancel      func()
}

func New(fa fyne.App, opts Options) *App {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	if opts.Title == "" {
		opts.Title = "SketchBoard"
	}
	cfg := opts.Config

	a := &App{
		fyne:        fa,
		opts:        opts,
		log:         opts.Log,
		pages:       opts.Pages,
		ink:         cfg.Canvas.StrokeColor,
		status:      widget.NewLabel(""),
		modeButtons: make(map[gesture.Mode]*widget.Button),
	}

	mode, err := sbtheme.ParseMode(fa.Preferences().StringWithFallback(themePrefKey, cfg.Theme))
	if err != nil {
		a.log.Error("[ui] %v, using system theme", err)
	}
	a.themeMode = mode
	fa.Settings().SetTheme(&boardTheme{mode: mode})

	a.tr = gesture.NewTranslator(a.pages, gesture.Options{
		Style:       state.Style{Color: sbtheme.StrokeColor(a.palette(), a.ink), Width: cfg.Canvas.StrokeWidth},
		EraseRadius: cfg.Canvas.EraseRadius,
		Log:         a.log,
	})
	a.tr.OnSelect = func(ids []string) {
		a.setStatus(fmt.Sprintf("%d selected", len(ids)))
	}
	a.tr.OnExportPrompt = func(r state.Rect) {
		a.showExportOptions(&r)
	}
	a.board = NewBoardWidget(a.pages, a.tr, a.palette)
	if opts.Pipeline != nil {
		opts.Pipeline.SetSurface(a.surface)
	}

	a.win = fa.NewWindow(opts.Title)
	a.win.Resize(fyne.NewSize(float32(cfg.Canvas.Width), float32(cfg.Canvas.Height)))
	a.win.SetContent(container.NewBorder(newToolbar(a), newBottomBar(a), nil, nil, a.board))

	a.cancel = a.pages.Subscribe(func(state.Change) {
		fyne.Do(a.updateStatus)
	})
	a.updateStatus()
	return a
}

func (a *App) Window() fyne.Window {
	return a.win
}

func (a *App) ShowAndRun() {
	a.win.ShowAndRun()
	a.cancel()
	a.board.Detach()
}

func (a *App) palette() sbtheme.Palette {
	return sbtheme.Resolve(a.themeMode, a.fyne.Settings().ThemeVariant() == theme.VariantDark)
}

// surface reports the board as it is on screen so captures match what the
// user sees.
func (a *App) surface() export.Surface {
	size := a.board.Size()
	return export.Surface{
		Width:      int(math.Ceil(float64(size.Width))),
		Height:     int(math.Ceil(float64(size.Height))),
		Background: a.palette().Background,
	}
}

func (a *App) setMode(m gesture.Mode) {
	a.tr.SetMode(m)
	a.refreshModeButtons()
	a.board.Refresh()
	a.updateStatus()
}

func (a *App) refreshModeButtons() {
	current := a.tr.Mode()
	for m, btn := range a.modeButtons {
		if m == current {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (a *App) cycleTheme() {
	a.themeMode = a.themeMode.Next()
	a.fyne.Preferences().SetString(themePrefKey, string(a.themeMode))
	a.fyne.Settings().SetTheme(&boardTheme{mode: a.themeMode})
	if a.themeButton != nil {
		a.themeButton.SetText(a.themeMode.Label())
	}
	a.restyle(a.tr.Style().Width)
	a.board.Refresh()
}

func (a *App) restyle(width float64) {
	a.tr.SetStyle(state.Style{Color: sbtheme.StrokeColor(a.palette(), a.ink), Width: width})
}

func (a *App) setInk(hex string) {
	a.ink = hex
	a.restyle(a.tr.Style().Width)
	a.setMode(gesture.ModeDraw)
}

func (a *App) setWidth(w float64) {
	a.restyle(w)
}

func (a *App) setStatus(text string) {
	a.status.SetText(text)
}

func (a *App) updateStatus() {
	pages := a.pages.Pages()
	current := a.pages.CurrentPageID()
	pos := 1
	for i, p := range pages {
		if p.ID == current {
			pos = i + 1
		}
	}
	a.setStatus(fmt.Sprintf("Page %d of %d  %s", pos, len(pages), a.tr.Mode().Label()))
}

// SetStatus updates the status line. Safe from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() {
		a.setStatus(text)
	})
}

// ReportSaveError surfaces a failed background save.
func (a *App) ReportSaveError(err error) {
	a.SetStatus("Save failed: " + err.Error())
}
