package gesture

import (
	"sync"

	"SketchBoard/internal/logger"
	"SketchBoard/internal/state"
)

// Options are fixed when the translator is built; the UI swaps the stroke
// style through SetStyle rather than sharing mutable globals.
type Options struct {
	Style       state.Style
	EraseRadius float64
	Log         *logger.Logger
}

// Translator turns pointer down/move/up events into page mutations
// according to the active Mode.
type Translator struct {
	pages *state.Collection
	log   *logger.Logger

	mu          sync.Mutex
	mode        Mode
	style       state.Style
	eraseRadius float64

	active     bool
	current    *state.Stroke
	box        state.SelectionBox
	selected   map[string]bool
	exportRect *state.Rect

	// OnSelect fires after a select gesture with the ids it picked.
	OnSelect func(ids []string)
	// OnExportPrompt fires when an export gesture outlined a usable area.
	OnExportPrompt func(r state.Rect)
}

func NewTranslator(pages *state.Collection, opts Options) *Translator {
	if opts.EraseRadius <= 0 {
		opts.EraseRadius = state.DefaultEraseRadius
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	return &Translator{
		pages:       pages,
		log:         opts.Log,
		mode:        ModeDraw,
		style:       opts.Style,
		eraseRadius: opts.EraseRadius,
		selected:    make(map[string]bool),
	}
}

func (t *Translator) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// SetMode switches modes and abandons whatever gesture was in flight.
func (t *Translator) SetMode(m Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m == t.mode {
		return
	}
	t.log.Debug("[gesture] mode %s -> %s", t.mode, m)
	t.mode = m
	t.active = false
	t.current = nil
	t.box.Visible = false
}

func (t *Translator) Style() state.Style {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.style
}

func (t *Translator) SetStyle(s state.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.style = s
}

func (t *Translator) Down(p state.Point) {
	t.mu.Lock()
	t.active = true
	switch {
	case t.mode == ModeDraw:
		s := state.BeginStroke(p)
		t.current = &s
		t.mu.Unlock()
	case t.mode == ModeErase:
		t.mu.Unlock()
		t.eraseAt(p)
	case t.mode.tracksBox():
		t.box = state.SelectionBox{OriginX: p.X, OriginY: p.Y, Visible: true}
		t.mu.Unlock()
	default:
		t.mu.Unlock()
	}
}

func (t *Translator) Move(p state.Point) {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	switch {
	case t.mode == ModeDraw:
		if t.current != nil {
			s := state.ExtendStroke(*t.current, p)
			t.current = &s
		}
		t.mu.Unlock()
	case t.mode == ModeErase:
		t.mu.Unlock()
		t.eraseAt(p)
	case t.mode.tracksBox():
		t.box.Width = p.X - t.box.OriginX
		t.box.Height = p.Y - t.box.OriginY
		t.mu.Unlock()
	default:
		t.mu.Unlock()
	}
}

// Up finishes the gesture. It is safe to call without a matching Down.
func (t *Translator) Up() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	t.active = false
	mode := t.mode
	box := t.box
	t.box.Visible = false

	switch mode {
	case ModeDraw:
		cur := t.current
		t.current = nil
		style := t.style
		t.mu.Unlock()
		if cur != nil {
			t.commit(state.CommitStroke(*cur, style))
		}
	case ModeSelect:
		t.mu.Unlock()
		if box.Width == 0 || box.Height == 0 {
			t.log.Debug("[gesture] ignoring zero-area selection box")
			return
		}
		t.selectIn(box.Rect())
	case ModeExport:
		if box.Width == 0 || box.Height == 0 {
			t.mu.Unlock()
			t.log.Debug("[gesture] ignoring zero-area export box")
			return
		}
		r := box.Rect()
		t.exportRect = &r
		prompt := t.OnExportPrompt
		t.mu.Unlock()
		if prompt != nil {
			prompt(r)
		}
	default:
		t.mu.Unlock()
	}
}

func (t *Translator) commit(s state.Stroke) {
	pageID := t.pages.UpdateCurrent(func(strokes []state.Stroke) []state.Stroke {
		return append(strokes, s)
	})
	t.log.Trace("[gesture] committed stroke %s with %d points on page %s", s.ID, len(s.Points), pageID)
}

func (t *Translator) eraseAt(p state.Point) {
	var removed []state.Stroke
	t.pages.UpdateCurrent(func(strokes []state.Stroke) []state.Stroke {
		var kept []state.Stroke
		kept, removed = state.EraseAt(strokes, p, t.eraseRadius)
		return kept
	})
	if len(removed) == 0 {
		return
	}
	t.mu.Lock()
	for _, s := range removed {
		delete(t.selected, s.ID)
	}
	t.mu.Unlock()
}

func (t *Translator) selectIn(r state.Rect) {
	ids := state.SelectInRect(t.pages.CurrentPage().Strokes, r)

	t.mu.Lock()
	t.selected = make(map[string]bool, len(ids))
	for _, id := range ids {
		t.selected[id] = true
	}
	cb := t.OnSelect
	t.mu.Unlock()

	if cb != nil {
		cb(ids)
	}
}

// ClearAll empties the current page.
func (t *Translator) ClearAll() error {
	t.mu.Lock()
	t.current = nil
	t.active = false
	t.selected = make(map[string]bool)
	t.mu.Unlock()
	t.pages.UpdateCurrent(func([]state.Stroke) []state.Stroke { return nil })
	return nil
}

// DeleteSelected removes the selected strokes from the current page and
// reports how many went.
func (t *Translator) DeleteSelected() (int, error) {
	t.mu.Lock()
	selected := t.selected
	t.selected = make(map[string]bool)
	t.mu.Unlock()
	if len(selected) == 0 {
		return 0, nil
	}

	removed := 0
	t.pages.UpdateCurrent(func(strokes []state.Stroke) []state.Stroke {
		kept := make([]state.Stroke, 0, len(strokes))
		for _, s := range strokes {
			if !selected[s.ID] {
				kept = append(kept, s)
			}
		}
		removed = len(strokes) - len(kept)
		return kept
	})
	return removed, nil
}

// ClearSelection drops the selection without touching strokes, e.g. after
// switching pages.
func (t *Translator) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = make(map[string]bool)
}

func (t *Translator) IsSelected(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected[id]
}

func (t *Translator) Selected() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.selected))
	for _, s := range t.pages.CurrentPage().Strokes {
		if t.selected[s.ID] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// InProgress is the stroke being drawn, if any.
func (t *Translator) InProgress() (state.Stroke, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return state.Stroke{}, false
	}
	return state.CommitStroke(*t.current, t.style), true
}

func (t *Translator) Box() state.SelectionBox {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.box
}

func (t *Translator) ExportRect() (state.Rect, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.exportRect == nil {
		return state.Rect{}, false
	}
	return *t.exportRect, true
}

func (t *Translator) ClearExportRect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exportRect = nil
}
