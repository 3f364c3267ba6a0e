package gesture_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/gesture"
	"SketchBoard/internal/state"
)

var pen = state.Style{Color: "#000000", Width: 3}

func newTranslator() (*gesture.Translator, *state.Collection) {
	pages := state.NewCollection(nil)
	return gesture.NewTranslator(pages, gesture.Options{Style: pen}), pages
}

func drag(t *gesture.Translator, pts ...state.Point) {
	t.Down(pts[0])
	for _, p := range pts[1:] {
		t.Move(p)
	}
	t.Up()
}

func TestDrawCommitsOneStrokePerGesture(t *testing.T) {
	tr, pages := newTranslator()

	for i := 0; i < 5; i++ {
		x := float64(i * 10)
		drag(tr, state.Point{X: x, Y: 0}, state.Point{X: x + 1, Y: 1}, state.Point{X: x + 2, Y: 2})
	}
	drag(tr, state.Point{X: 99, Y: 99}) // a tap is a one-point stroke

	strokes := pages.CurrentPage().Strokes
	require.Len(t, strokes, 6)
	assert.Len(t, strokes[0].Points, 3, "one point per move, no decimation")
	assert.Equal(t, "#000000", strokes[0].Color)
	assert.Equal(t, 3.0, strokes[0].Width)
	assert.Len(t, strokes[5].Points, 1)
}

func TestScenarioDrawOneStroke(t *testing.T) {
	tr, pages := newTranslator()
	drag(tr, state.Point{X: 1, Y: 1}, state.Point{X: 2, Y: 2})

	got := pages.Pages()
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Len(t, got[0].Strokes, 1)
	assert.Equal(t, "1", pages.CurrentPageID())
}

func TestUpWithoutDownIsIgnored(t *testing.T) {
	tr, pages := newTranslator()
	tr.Move(state.Point{X: 5, Y: 5})
	tr.Up()
	assert.Empty(t, pages.CurrentPage().Strokes)
}

func TestInProgressStroke(t *testing.T) {
	tr, _ := newTranslator()
	tr.Down(state.Point{X: 1, Y: 1})
	tr.Move(state.Point{X: 2, Y: 2})

	s, ok := tr.InProgress()
	require.True(t, ok)
	assert.Len(t, s.Points, 2)
	assert.Equal(t, pen.Color, s.Color)

	tr.Up()
	_, ok = tr.InProgress()
	assert.False(t, ok)
}

func TestStyleChangesApplyToNextStroke(t *testing.T) {
	tr, pages := newTranslator()
	drag(tr, state.Point{})
	tr.SetStyle(state.Style{Color: "#ff0000", Width: 8})
	drag(tr, state.Point{})

	strokes := pages.CurrentPage().Strokes
	assert.Equal(t, "#000000", strokes[0].Color)
	assert.Equal(t, "#ff0000", strokes[1].Color)
	assert.Equal(t, 8.0, strokes[1].Width)
}

func TestSwitchingModeAbandonsStroke(t *testing.T) {
	tr, pages := newTranslator()
	tr.Down(state.Point{})
	tr.Move(state.Point{X: 3, Y: 3})
	tr.SetMode(gesture.ModeSelect)
	tr.Up()
	assert.Empty(t, pages.CurrentPage().Strokes)
	assert.Equal(t, gesture.ModeSelect, tr.Mode())
}

func TestEraseOnDownAndMove(t *testing.T) {
	tr, pages := newTranslator()
	drag(tr, state.Point{X: 0, Y: 0}, state.Point{X: 52, Y: 51})
	drag(tr, state.Point{X: 300, Y: 300})
	drag(tr, state.Point{X: 500, Y: 500})
	keep := pages.CurrentPage().Strokes[2]

	tr.SetMode(gesture.ModeErase)
	tr.Down(state.Point{X: 50, Y: 50})
	assert.Len(t, pages.CurrentPage().Strokes, 2)
	tr.Move(state.Point{X: 305, Y: 300})
	tr.Up()

	strokes := pages.CurrentPage().Strokes
	require.Len(t, strokes, 1)
	assert.Equal(t, keep.ID, strokes[0].ID)
}

func TestEraseRadiusOption(t *testing.T) {
	pages := state.NewCollection(nil)
	tr := gesture.NewTranslator(pages, gesture.Options{Style: pen, EraseRadius: 50})
	drag(tr, state.Point{X: 40, Y: 0})

	tr.SetMode(gesture.ModeErase)
	drag(tr, state.Point{})
	assert.Empty(t, pages.CurrentPage().Strokes)
}

func TestSelectUsesRectangleGeometry(t *testing.T) {
	tr, pages := newTranslator()
	drag(tr, state.Point{X: 10, Y: 10}, state.Point{X: 20, Y: 20})
	drag(tr, state.Point{X: 200, Y: 200}, state.Point{X: 220, Y: 220})
	strokes := pages.CurrentPage().Strokes

	var picked []string
	tr.OnSelect = func(ids []string) { picked = ids }
	tr.SetMode(gesture.ModeSelect)

	tr.Down(state.Point{X: 50, Y: 50})
	tr.Move(state.Point{X: 30, Y: 30})
	tr.Move(state.Point{X: 0, Y: 0})
	box := tr.Box()
	assert.True(t, box.Visible)
	assert.Equal(t, -50.0, box.Width)
	tr.Up()

	assert.False(t, tr.Box().Visible)
	assert.Equal(t, []string{strokes[0].ID}, picked)
	assert.Equal(t, []string{strokes[0].ID}, tr.Selected())
	assert.True(t, tr.IsSelected(strokes[0].ID))
	assert.False(t, tr.IsSelected(strokes[1].ID))

	n, err := tr.DeleteSelected()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, strokes[1].ID, pages.CurrentPage().Strokes[0].ID)
	assert.Empty(t, tr.Selected())
}

func TestSelectTapKeepsSelection(t *testing.T) {
	tr, pages := newTranslator()
	drag(tr, state.Point{X: 10, Y: 10}, state.Point{X: 20, Y: 20})
	drag(tr, state.Point{X: 50, Y: 50}, state.Point{X: 60, Y: 60})
	strokes := pages.CurrentPage().Strokes

	calls := 0
	tr.OnSelect = func([]string) { calls++ }
	tr.SetMode(gesture.ModeSelect)
	drag(tr, state.Point{X: 0, Y: 0}, state.Point{X: 30, Y: 30})
	require.Equal(t, []string{strokes[0].ID}, tr.Selected())

	drag(tr, state.Point{X: 55, Y: 55})
	drag(tr, state.Point{X: 50, Y: 50}, state.Point{X: 60, Y: 50})
	assert.Equal(t, []string{strokes[0].ID}, tr.Selected())
	assert.Equal(t, 1, calls)
}

func TestDrawingKeepsConcurrentRemoteStrokes(t *testing.T) {
	tr, pages := newTranslator()
	const n = 500

	var deletes int
	var mu sync.Mutex
	pages.Subscribe(func(ch state.Change) {
		if ch.Local && ch.Has(state.OpDeleteStroke) {
			mu.Lock()
			deletes++
			mu.Unlock()
		}
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			s := state.Stroke{ID: fmt.Sprintf("remote-%d", i), Points: []state.Point{{X: 1, Y: 1}}, Color: "#000000", Width: 3}
			pages.Apply(state.Op{Type: state.OpInsertStroke, PageID: "1", Stroke: &s, Site: "other"})
		}
	}()
	for i := 0; i < n; i++ {
		drag(tr, state.Point{X: float64(i), Y: 500})
	}
	wg.Wait()

	assert.Len(t, pages.CurrentPage().Strokes, 2*n)
	assert.Zero(t, deletes)
}

func TestExportPromptNeedsArea(t *testing.T) {
	tr, _ := newTranslator()
	var prompts []state.Rect
	tr.OnExportPrompt = func(r state.Rect) { prompts = append(prompts, r) }
	tr.SetMode(gesture.ModeExport)

	drag(tr, state.Point{X: 10, Y: 10})
	drag(tr, state.Point{X: 10, Y: 10}, state.Point{X: 40, Y: 10})
	_, ok := tr.ExportRect()
	assert.False(t, ok)
	assert.Empty(t, prompts)

	drag(tr, state.Point{X: 40, Y: 60}, state.Point{X: 10, Y: 20})
	require.Len(t, prompts, 1)
	assert.Equal(t, state.Rect{X: 10, Y: 20, W: 30, H: 40}, prompts[0])
	r, ok := tr.ExportRect()
	assert.True(t, ok)
	assert.Equal(t, prompts[0], r)

	tr.ClearExportRect()
	_, ok = tr.ExportRect()
	assert.False(t, ok)
}

func TestClearAll(t *testing.T) {
	tr, pages := newTranslator()
	drag(tr, state.Point{})
	drag(tr, state.Point{X: 1})
	require.NoError(t, tr.ClearAll())
	assert.Empty(t, pages.CurrentPage().Strokes)
}

func TestDrawTargetsCurrentPage(t *testing.T) {
	tr, pages := newTranslator()
	drag(tr, state.Point{})
	pages.CreatePage()
	drag(tr, state.Point{})
	drag(tr, state.Point{})

	got := pages.Pages()
	assert.Len(t, got[0].Strokes, 1)
	assert.Len(t, got[1].Strokes, 2)
}

func TestParseMode(t *testing.T) {
	m, err := gesture.ParseMode("erase")
	require.NoError(t, err)
	assert.Equal(t, gesture.ModeErase, m)
	assert.Equal(t, "Erase", m.Label())

	_, err = gesture.ParseMode("paint")
	assert.Error(t, err)
}
