package state

type Point struct{ X, Y float64 }

// Stroke is one committed freehand line. Points holds the move-to point
// followed by every line-to point in gesture order.
type Stroke struct {
	ID     string
	Points []Point
	Color  string // hex, e.g. "#000000"
	Width  float64
}

// Style is the colour and width applied when a stroke is committed.
type Style struct {
	Color string
	Width float64
}

// Page is a named canvas holding its strokes in drawing order.
type Page struct {
	ID      string   `json:"id"`
	Strokes []Stroke `json:"paths"`
}

func BeginStroke(p Point) Stroke {
	return Stroke{
		ID:     newStrokeID(),
		Points: []Point{p},
	}
}

// ExtendStroke returns s with one more line-to point. The input is left
// untouched so in-progress strokes can be shared with renderers.
func ExtendStroke(s Stroke, p Point) Stroke {
	points := make([]Point, len(s.Points), len(s.Points)+1)
	copy(points, s.Points)
	s.Points = append(points, p)
	return s
}

func CommitStroke(s Stroke, style Style) Stroke {
	s.Color = style.Color
	s.Width = style.Width
	return s
}

// Bounds is the axis-aligned box around the stroke's sampled points.
func (s Stroke) Bounds() Rect {
	if len(s.Points) == 0 {
		return Rect{}
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func (s Stroke) clone() Stroke {
	s.Points = append([]Point(nil), s.Points...)
	return s
}

func (p Page) clone() Page {
	strokes := make([]Stroke, len(p.Strokes))
	for i, s := range p.Strokes {
		strokes[i] = s.clone()
	}
	p.Strokes = strokes
	return p
}
