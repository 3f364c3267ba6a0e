package ui

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/export"
	"SketchBoard/internal/gesture"
	"SketchBoard/internal/state"
	sbtheme "SketchBoard/internal/theme"
)

func newTestApp(t *testing.T) (*App, *state.Collection) {
	t.Helper()
	fa := test.NewApp()
	t.Cleanup(fa.Quit)
	pages := state.NewCollection(nil)
	pipeline := export.NewPipeline(pages, nil, export.CaptureOptions{Width: 100, Height: 100}, nil)
	return New(fa, Options{Pages: pages, Pipeline: pipeline}), pages
}

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestMouseDrawsStroke(t *testing.T) {
	a, pages := newTestApp(t)

	a.board.MouseDown(mouse(10, 10))
	a.board.Dragged(drag(20, 20))
	a.board.Dragged(drag(30, 25))
	a.board.DragEnd()
	a.board.MouseUp(mouse(30, 25))

	strokes := pages.CurrentPage().Strokes
	require.Len(t, strokes, 1)
	assert.Equal(t, []state.Point{{X: 10, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 25}}, strokes[0].Points)
	assert.Equal(t, 3.0, strokes[0].Width)

	// background plus one line per segment
	assert.Len(t, test.WidgetRenderer(a.board).Objects(), 3)
}

func TestSecondaryButtonDoesNotDraw(t *testing.T) {
	a, pages := newTestApp(t)
	e := mouse(10, 10)
	e.Button = desktop.MouseButtonSecondary
	a.board.MouseDown(e)
	a.board.MouseUp(e)
	assert.Empty(t, pages.CurrentPage().Strokes)
}

func TestTouchDrawsAndTapLeavesDot(t *testing.T) {
	a, pages := newTestApp(t)

	touch := &mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 5)}}
	a.board.TouchDown(touch)
	a.board.TouchUp(touch)

	strokes := pages.CurrentPage().Strokes
	require.Len(t, strokes, 1)
	assert.Len(t, strokes[0].Points, 1)
	assert.Len(t, test.WidgetRenderer(a.board).Objects(), 2)
}

func TestModeButtons(t *testing.T) {
	a, pages := newTestApp(t)
	require.NoError(t, pages.ReplaceStrokes("1", []state.Stroke{{
		ID: "s", Points: []state.Point{{X: 50, Y: 50}, {X: 60, Y: 60}}, Color: "#000000", Width: 3,
	}}))

	test.Tap(a.modeButtons[gesture.ModeErase])
	assert.Equal(t, gesture.ModeErase, a.tr.Mode())
	assert.Equal(t, widget.HighImportance, a.modeButtons[gesture.ModeErase].Importance)
	assert.Equal(t, widget.MediumImportance, a.modeButtons[gesture.ModeDraw].Importance)

	a.board.MouseDown(mouse(52, 51))
	a.board.MouseUp(mouse(52, 51))
	assert.Empty(t, pages.CurrentPage().Strokes)

	a.setInk("#FF0000")
	assert.Equal(t, gesture.ModeDraw, a.tr.Mode())
	assert.Equal(t, "#FF0000", a.tr.Style().Color)
}

func TestSelectionHighlights(t *testing.T) {
	a, pages := newTestApp(t)
	require.NoError(t, pages.ReplaceStrokes("1", []state.Stroke{{
		ID: "s", Points: []state.Point{{X: 50, Y: 50}, {X: 60, Y: 60}}, Color: "#000000", Width: 3,
	}}))
	a.setMode(gesture.ModeSelect)

	a.board.MouseDown(mouse(40, 40))
	a.board.Dragged(drag(70, 70))
	objects := test.WidgetRenderer(a.board).Objects()
	require.Len(t, objects, 3, "background, stroke and the drag box")

	a.board.MouseUp(mouse(70, 70))
	assert.True(t, a.tr.IsSelected("s"))
	assert.Equal(t, "1 selected", a.status.Text)

	a.deleteSelection()
	assert.Empty(t, pages.CurrentPage().Strokes)
	assert.Equal(t, "Deleted 1 strokes", a.status.Text)

	a.deleteSelection()
	assert.Equal(t, "Nothing selected", a.status.Text)
}

func TestThemeCycle(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Equal(t, sbtheme.System, a.themeMode)

	a.cycleTheme()
	assert.Equal(t, sbtheme.Light, a.themeMode)
	assert.Equal(t, "light", a.fyne.Preferences().String(themePrefKey))
	assert.Equal(t, "Light", a.themeButton.Text)
	assert.Equal(t, "#000000", a.tr.Style().Color)

	a.cycleTheme()
	assert.Equal(t, sbtheme.Dark, a.themeMode)
	assert.Equal(t, "#FFFFFF", a.tr.Style().Color, "dark pages draw in white")
}

func TestStatus(t *testing.T) {
	a, pages := newTestApp(t)
	assert.Equal(t, "Page 1 of 1  Draw", a.status.Text)

	pages.CreatePage()
	a.setMode(gesture.ModeExport)
	assert.Equal(t, "Page 2 of 2  Export", a.status.Text)
}

func TestBoardTheme(t *testing.T) {
	dark := &boardTheme{mode: sbtheme.Dark}
	assert.Equal(t, color.NRGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xFF}, dark.Color(theme.ColorNameBackground, theme.VariantLight))

	system := &boardTheme{mode: sbtheme.System}
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, system.Color(theme.ColorNameBackground, theme.VariantLight))
	assert.Equal(t, color.NRGBA{R: 0xCF, G: 0x66, B: 0x79, A: 0xFF}, system.Color(theme.ColorNameError, theme.VariantDark))

	sel := dark.Color(theme.ColorNameSelection, theme.VariantDark).(color.NRGBA)
	assert.Equal(t, uint8(0x40), sel.A)
}

func TestCaptureFollowsBoard(t *testing.T) {
	a, pages := newTestApp(t)
	a.cycleTheme()
	a.cycleTheme()
	require.Equal(t, sbtheme.Dark, a.themeMode)

	a.board.Resize(fyne.NewSize(300, 200))
	a.board.MouseDown(mouse(250, 150))
	a.board.Dragged(drag(290, 150))
	a.board.MouseUp(mouse(290, 150))
	require.Len(t, pages.CurrentPage().Strokes, 1)

	assert.Equal(t, export.Surface{Width: 300, Height: 200, Background: "#121212"}, a.surface())
	artifact, err := a.opts.Pipeline.Snapshot(nil)
	require.NoError(t, err)
	assert.Equal(t, 300, artifact.Width)
	assert.Equal(t, 200, artifact.Height)

	img, err := png.Decode(bytes.NewReader(artifact.PNG))
	require.NoError(t, err)
	r, _, _, _ := img.At(270, 150).RGBA()
	assert.Greater(t, r, uint32(0x8000), "white ink on the dark page")
	r, _, _, _ = img.At(10, 10).RGBA()
	assert.Less(t, r, uint32(0x8000))
}

func TestTargetFor(t *testing.T) {
	assert.Equal(t, export.TargetGuidance, targetFor(kindGuidance))
	assert.Equal(t, export.TargetRecommendations, targetFor(kindRecommendations))
	assert.Equal(t, export.TargetBoth, targetFor(kindBoth))
}
