package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SketchBoard/internal/state"
)

func TestEraseAtRemovesStrokeNearPointer(t *testing.T) {
	near := stroke("near", state.Point{X: 0, Y: 0}, state.Point{X: 52, Y: 51}, state.Point{X: 100, Y: 100})
	far := stroke("far", state.Point{X: 200, Y: 200}, state.Point{X: 210, Y: 220})

	kept, removed := state.EraseAt([]state.Stroke{near, far}, state.Point{X: 50, Y: 50}, state.DefaultEraseRadius)

	assert.Equal(t, []string{"far"}, ids(kept))
	assert.Equal(t, []string{"near"}, ids(removed))
}

func TestEraseAtOnlySampledPointsCount(t *testing.T) {
	// The segment passes straight through the pointer but neither endpoint
	// is within the radius.
	through := stroke("through", state.Point{X: 0, Y: 50}, state.Point{X: 100, Y: 50})

	kept, removed := state.EraseAt([]state.Stroke{through}, state.Point{X: 50, Y: 50}, 10)

	assert.Equal(t, []string{"through"}, ids(kept))
	assert.Empty(t, removed)
}

func TestEraseAtRadiusIsInclusive(t *testing.T) {
	edge := stroke("edge", state.Point{X: 60, Y: 50})
	outside := stroke("outside", state.Point{X: 60.01, Y: 50})

	kept, removed := state.EraseAt([]state.Stroke{edge, outside}, state.Point{X: 50, Y: 50}, 10)

	assert.Equal(t, []string{"outside"}, ids(kept))
	assert.Equal(t, []string{"edge"}, ids(removed))
}

func TestEraseAtKeepsOrder(t *testing.T) {
	var strokes []state.Stroke
	for i, x := range []float64{0, 500, 5, 900, 8} {
		strokes = append(strokes, stroke(string(rune('a'+i)), state.Point{X: x, Y: 0}))
	}
	kept, removed := state.EraseAt(strokes, state.Point{}, 10)
	assert.Equal(t, []string{"b", "d"}, ids(kept))
	assert.Equal(t, []string{"a", "c", "e"}, ids(removed))
}

func TestSelectionBoxRect(t *testing.T) {
	b := state.SelectionBox{OriginX: 100, OriginY: 80, Width: -40, Height: 20, Visible: true}
	assert.Equal(t, state.Rect{X: 60, Y: 80, W: 40, H: 20}, b.Rect())
	assert.True(t, state.SelectionBox{OriginX: 5, Width: 10}.Rect().Empty())
}

func TestSelectInRect(t *testing.T) {
	inside := stroke("inside", state.Point{X: 15, Y: 15}, state.Point{X: 18, Y: 18})
	crossing := stroke("crossing", state.Point{X: 0, Y: 20}, state.Point{X: 40, Y: 20})
	corner := stroke("corner", state.Point{X: 30, Y: 30}, state.Point{X: 40, Y: 40})
	outside := stroke("outside", state.Point{X: 50, Y: 50}, state.Point{X: 60, Y: 60})
	diagonalMiss := stroke("miss", state.Point{X: 0, Y: 25}, state.Point{X: 25, Y: 50})
	dot := stroke("dot", state.Point{X: 12, Y: 28})

	r := state.Rect{X: 10, Y: 10, W: 20, H: 20}
	got := state.SelectInRect([]state.Stroke{inside, crossing, corner, outside, diagonalMiss, dot}, r)

	assert.Equal(t, []string{"inside", "crossing", "corner", "dot"}, got)
}

func TestRectHelpers(t *testing.T) {
	a := state.Rect{X: 0, Y: 0, W: 10, H: 10}
	b := state.Rect{X: 20, Y: 5, W: 5, H: 20}

	assert.False(t, a.Overlaps(b))
	assert.True(t, a.Inflate(10).Overlaps(b))
	assert.Equal(t, state.Rect{X: 0, Y: 0, W: 25, H: 25}, a.Union(b))
	assert.Equal(t, state.Rect{X: 1, Y: 2, W: 3, H: 4}, state.RectFromCorners(state.Point{X: 4, Y: 6}, state.Point{X: 1, Y: 2}))

	r, ok := state.BoundsOf([]state.Stroke{
		stroke("a", state.Point{X: 1, Y: 1}, state.Point{X: 3, Y: 2}),
		stroke("b"),
		stroke("c", state.Point{X: -1, Y: 5}),
	})
	assert.True(t, ok)
	assert.Equal(t, state.Rect{X: -1, Y: 1, W: 4, H: 4}, r)

	_, ok = state.BoundsOf(nil)
	assert.False(t, ok)
}
