package state

// DefaultEraseRadius is the pointer radius, in canvas units, used by the eraser.
const DefaultEraseRadius = 10.0

// EraseAt splits strokes into those kept and those with at least one sampled
// point within radius of p. Order is preserved in both results.
//
// The scan is linear in the total number of points. A stroke whose padded
// bounds miss p is skipped without visiting its points; pages with many
// thousands of strokes would want a spatial index instead.
func EraseAt(strokes []Stroke, p Point, radius float64) (kept, removed []Stroke) {
	kept = make([]Stroke, 0, len(strokes))
	r2 := radius * radius
	for _, s := range strokes {
		if hits(s, p, radius, r2) {
			removed = append(removed, s)
			continue
		}
		kept = append(kept, s)
	}
	return kept, removed
}

func hits(s Stroke, p Point, radius, r2 float64) bool {
	if len(s.Points) == 0 || !s.Bounds().Inflate(radius).Contains(p) {
		return false
	}
	for _, q := range s.Points {
		dx, dy := q.X-p.X, q.Y-p.Y
		if dx*dx+dy*dy <= r2 {
			return true
		}
	}
	return false
}
