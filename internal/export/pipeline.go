package export

import (
	"context"
	"fmt"

	"SketchBoard/internal/logger"
	"SketchBoard/internal/state"
)

type Target int

const (
	TargetGuidance Target = 1 << iota
	TargetRecommendations

	TargetNone Target = 0
	TargetBoth        = TargetGuidance | TargetRecommendations
)

// Analyzer is the remote side of the pipeline; *Client implements it.
type Analyzer interface {
	Guidance(ctx context.Context, a *Artifact) (*Guidance, error)
	Recommend(ctx context.Context, a *Artifact) (*Recommendations, error)
}

type Request struct {
	// Region crops the capture; nil captures the whole surface.
	Region *state.Rect
	Target Target
}

type Result struct {
	Artifact        *Artifact
	Guidance        *Guidance
	Recommendations *Recommendations
}

// Pipeline captures the current page and submits it for analysis. It only
// ever reads from the collection.
type Pipeline struct {
	pages    *state.Collection
	analyzer Analyzer
	capture  CaptureOptions
	surface  func() Surface
	log      *logger.Logger
}

// Surface is the live drawing area: its size and the colour it is drawn on.
// Zero fields fall back to the pipeline's capture options.
type Surface struct {
	Width, Height int
	Background    string
}

func NewPipeline(pages *state.Collection, analyzer Analyzer, capture CaptureOptions, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Discard()
	}
	return &Pipeline{pages: pages, analyzer: analyzer, capture: capture, log: log}
}

// SetSurface makes whole-page captures follow the on-screen canvas instead of
// the fixed capture size. fn is called on every capture.
func (p *Pipeline) SetSurface(fn func() Surface) {
	p.surface = fn
}

func (p *Pipeline) options() CaptureOptions {
	opts := p.capture
	if p.surface == nil {
		return opts
	}
	s := p.surface()
	if s.Width > 0 && s.Height > 0 {
		opts.Width, opts.Height = s.Width, s.Height
	}
	if s.Background != "" {
		opts.Background = s.Background
	}
	return opts
}

// Snapshot captures the current page without contacting the service.
func (p *Pipeline) Snapshot(region *state.Rect) (*Artifact, error) {
	page := p.pages.CurrentPage()
	opts := p.options()
	opts.Region = region
	a, err := Capture(page.Strokes, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to capture page %s: %w", page.ID, err)
	}
	return a, nil
}

func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	a, err := p.Snapshot(req.Region)
	if err != nil {
		return nil, err
	}
	p.log.Debug("[export] captured %dx%d (%d bytes)", a.Width, a.Height, len(a.PNG))
	return p.analyze(ctx, a, req.Target)
}

// RunAsync runs the pipeline in the background and reports through done.
// The capture happens before RunAsync returns, so later edits do not leak
// into the upload.
func (p *Pipeline) RunAsync(ctx context.Context, req Request, done func(*Result, error)) {
	a, err := p.Snapshot(req.Region)
	if err != nil {
		done(nil, err)
		return
	}
	go func() {
		res, err := p.analyze(ctx, a, req.Target)
		if err != nil {
			p.log.Error("[export] analysis failed: %v", err)
		}
		done(res, err)
	}()
}

func (p *Pipeline) analyze(ctx context.Context, a *Artifact, target Target) (*Result, error) {
	res := &Result{Artifact: a}
	if target&TargetGuidance != 0 {
		g, err := p.analyzer.Guidance(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("guidance request failed: %w", err)
		}
		res.Guidance = g
	}
	if target&TargetRecommendations != 0 {
		r, err := p.analyzer.Recommend(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("recommendation request failed: %w", err)
		}
		res.Recommendations = r
	}
	return res, nil
}
