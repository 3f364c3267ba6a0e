package state

// SelectionBox is the rectangle dragged out in select and export modes.
// Width and Height are signed deltas from the origin until normalized by Rect.
type SelectionBox struct {
	OriginX, OriginY float64
	Width, Height    float64
	Visible          bool
}

func (b SelectionBox) Rect() Rect {
	return RectFromCorners(
		Point{X: b.OriginX, Y: b.OriginY},
		Point{X: b.OriginX + b.Width, Y: b.OriginY + b.Height},
	)
}

// SelectInRect returns the ids of strokes with a point inside r or a
// segment crossing it.
func SelectInRect(strokes []Stroke, r Rect) []string {
	var ids []string
	for _, s := range strokes {
		if len(s.Points) == 0 || !s.Bounds().Overlaps(r) {
			continue
		}
		if strokeTouches(s, r) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func strokeTouches(s Stroke, r Rect) bool {
	if len(s.Points) == 1 {
		return r.Contains(s.Points[0])
	}
	for i := 1; i < len(s.Points); i++ {
		if r.segmentCrosses(s.Points[i-1], s.Points[i]) {
			return true
		}
	}
	return false
}
