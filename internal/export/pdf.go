package export

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"SketchBoard/internal/state"
	"SketchBoard/internal/theme"
)

type PDFOptions struct {
	Title string
	// Region limits the export to part of the page; nil means every stroke.
	Region *state.Rect
}

const pdfMargin = 36.0

// WritePDF draws strokes as vector lines on one A4 page, scaled to fit.
func WritePDF(w io.Writer, strokes []state.Stroke, opts PDFOptions) error {
	p := gofpdf.New("P", "pt", "A4", "")
	if opts.Title != "" {
		p.SetTitle(opts.Title, true)
	}
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	area, ok := pdfArea(strokes, opts.Region)
	if ok {
		pageW, pageH := p.GetPageSize()
		scale := math.Min((pageW-2*pdfMargin)/area.W, (pageH-2*pdfMargin)/area.H)
		if scale > 1 {
			scale = 1
		}
		tx := func(pt state.Point) (float64, float64) {
			return pdfMargin + (pt.X-area.X)*scale, pdfMargin + (pt.Y-area.Y)*scale
		}
		if opts.Region != nil {
			p.ClipRect(pdfMargin, pdfMargin, area.W*scale, area.H*scale, false)
		}

		for _, st := range strokes {
			if len(st.Points) == 0 {
				continue
			}
			if n, err := theme.ParseHex(st.Color); err == nil {
				p.SetDrawColor(int(n.R), int(n.G), int(n.B))
			} else {
				p.SetDrawColor(0, 0, 0)
			}
			p.SetLineWidth(math.Max(st.Width*scale, 0.1))

			if len(st.Points) == 1 {
				x, y := tx(st.Points[0])
				p.Line(x, y, x+0.01, y)
				continue
			}
			for i := 1; i < len(st.Points); i++ {
				x1, y1 := tx(st.Points[i-1])
				x2, y2 := tx(st.Points[i])
				p.Line(x1, y1, x2, y2)
			}
		}
		if opts.Region != nil {
			p.ClipEnd()
		}
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func pdfArea(strokes []state.Stroke, region *state.Rect) (state.Rect, bool) {
	if region != nil {
		if region.Empty() {
			return state.Rect{}, false
		}
		return *region, true
	}
	r, ok := state.BoundsOf(strokes)
	if !ok {
		return r, false
	}
	// keep single dots and straight lines from dividing by zero
	if r.W < 1 {
		r.W = 1
	}
	if r.H < 1 {
		r.H = 1
	}
	return r, true
}
