package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadPathData = errors.New("malformed path data")

// PathData renders the points as "M x y L x y ..." vector path commands.
func (s Stroke) PathData() string {
	var b strings.Builder
	for i, p := range s.Points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(strconv.FormatFloat(p.X, 'g', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Y, 'g', -1, 64))
	}
	return b.String()
}

// ParsePathData reads move-to and line-to commands back into points.
// Numbers may be separated by spaces or commas.
func ParsePathData(d string) ([]Point, error) {
	fields := strings.FieldsFunc(d, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})

	var points []Point
	for i := 0; i < len(fields); {
		cmd := fields[i]
		if cmd != "M" && cmd != "L" {
			return nil, fmt.Errorf("%w: unexpected token %q", ErrBadPathData, cmd)
		}
		if cmd == "M" && len(points) > 0 {
			return nil, fmt.Errorf("%w: more than one move-to", ErrBadPathData)
		}
		if cmd == "L" && len(points) == 0 {
			return nil, fmt.Errorf("%w: line-to before move-to", ErrBadPathData)
		}
		if i+2 >= len(fields) {
			return nil, fmt.Errorf("%w: %s needs two coordinates", ErrBadPathData, cmd)
		}
		x, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPathData, err)
		}
		y, err := strconv.ParseFloat(fields[i+2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPathData, err)
		}
		points = append(points, Point{X: x, Y: y})
		i += 3
	}
	return points, nil
}

// strokeJSON is the stored and wire layout of a stroke.
type strokeJSON struct {
	ID    string  `json:"id"`
	Path  string  `json:"path"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

func (s Stroke) MarshalJSON() ([]byte, error) {
	return json.Marshal(strokeJSON{
		ID:    s.ID,
		Path:  s.PathData(),
		Color: s.Color,
		Width: s.Width,
	})
}

func (s *Stroke) UnmarshalJSON(data []byte) error {
	var raw strokeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	points, err := ParsePathData(raw.Path)
	if err != nil {
		return fmt.Errorf("stroke %s: %w", raw.ID, err)
	}
	*s = Stroke{
		ID:     raw.ID,
		Points: points,
		Color:  raw.Color,
		Width:  raw.Width,
	}
	return nil
}
