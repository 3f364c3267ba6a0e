package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"SketchBoard/internal/state"
	"SketchBoard/internal/theme"
)

var ErrEmptyRegion = errors.New("capture region has no area")

// maxSide keeps a runaway region from allocating a huge image.
const maxSide = 8192

type CaptureOptions struct {
	Width, Height int
	// Background is the page colour. Empty picks whichever of the light and
	// dark page colours keeps the strokes visible.
	Background string
	// Region, when set, crops the capture to that part of the surface.
	Region *state.Rect
}

// Artifact is an encoded image ready to be saved or uploaded.
type Artifact struct {
	PNG    []byte
	Width  int
	Height int
	Name   string
}

// Capture rasterizes strokes into a PNG. Strokes are copied first so the
// caller may keep editing the page while the image is encoded.
func Capture(strokes []state.Stroke, opts CaptureOptions) (*Artifact, error) {
	snapshot := make([]state.Stroke, len(strokes))
	copy(snapshot, strokes)

	origin := state.Point{}
	w, h := opts.Width, opts.Height
	if opts.Region != nil {
		r := *opts.Region
		if r.Empty() {
			return nil, ErrEmptyRegion
		}
		origin = state.Point{X: r.X, Y: r.Y}
		w, h = int(math.Ceil(r.W)), int(math.Ceil(r.H))
	}
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyRegion
	}
	if w > maxSide || h > maxSide {
		return nil, fmt.Errorf("capture of %dx%d exceeds %d pixels per side", w, h, maxSide)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	background := opts.Background
	if background == "" {
		inks := make([]string, len(snapshot))
		for i, s := range snapshot {
			inks[i] = s.Color
		}
		background = theme.BackgroundFor(inks)
	}
	bg := theme.Color(background, color.White)
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	for _, s := range snapshot {
		strokeOnto(dasher, s, origin)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return &Artifact{PNG: buf.Bytes(), Width: w, Height: h, Name: "drawing.png"}, nil
}

func strokeOnto(d *rasterx.Dasher, s state.Stroke, origin state.Point) {
	if len(s.Points) == 0 {
		return
	}
	width := s.Width
	if width <= 0 {
		width = 1
	}
	d.SetStroke(fixed.Int26_6(width*64), 4*64, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
	d.SetColor(theme.Color(s.Color, color.Black))

	at := func(p state.Point) fixed.Point26_6 {
		return rasterx.ToFixedP(p.X-origin.X, p.Y-origin.Y)
	}
	d.Start(at(s.Points[0]))
	if len(s.Points) == 1 {
		// a tap still leaves a dot
		p := s.Points[0]
		d.Line(at(state.Point{X: p.X + 0.01, Y: p.Y}))
	}
	for _, p := range s.Points[1:] {
		d.Line(at(p))
	}
	d.Stop(false)
	d.Draw()
	d.Clear()
}
