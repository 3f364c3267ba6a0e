package state

import (
	"errors"
	"strconv"
	"sync"
)

var ErrPageNotFound = errors.New("page not found")

// DefaultPages is the collection used when nothing has been stored yet.
func DefaultPages() []Page {
	return []Page{{ID: "1", Strokes: []Stroke{}}}
}

// Collection is the ordered set of pages plus the id of the current one.
// It is safe for concurrent use; subscribers run on the mutating goroutine
// after the lock has been released.
type Collection struct {
	mu        sync.RWMutex
	pages     []Page
	currentID string
	site      string
	clock     Clock

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(Change)
}

func NewCollection(pages []Page) *Collection {
	c := &Collection{site: newSiteID()}
	c.pages = normalize(pages)
	c.currentID = c.pages[0].ID
	return c
}

func normalize(pages []Page) []Page {
	if len(pages) == 0 {
		return DefaultPages()
	}
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = p.clone()
	}
	return out
}

// Site identifies this collection in replicated ops.
func (c *Collection) Site() string {
	return c.site
}

func (c *Collection) Subscribe(fn func(Change)) (cancel func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Collection) notify(ch Change) {
	if len(ch.Ops) == 0 {
		return
	}
	c.subMu.Lock()
	subs := append([]subscriber(nil), c.subs...)
	c.subMu.Unlock()
	for _, s := range subs {
		s.fn(ch)
	}
}

// currentIndex falls back to the first page when currentID is stale.
func (c *Collection) currentIndex() int {
	if i := c.indexOf(c.currentID); i >= 0 {
		return i
	}
	return 0
}

func (c *Collection) indexOf(id string) int {
	for i, p := range c.pages {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection) CurrentPage() Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pages[c.currentIndex()].clone()
}

func (c *Collection) CurrentPageID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pages[c.currentIndex()].ID
}

func (c *Collection) Page(id string) (Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return Page{}, false
	}
	return c.pages[i].clone(), true
}

// Pages returns a deep copy of every page in navigation order.
func (c *Collection) Pages() []Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Page, len(c.pages))
	for i, p := range c.pages {
		out[i] = p.clone()
	}
	return out
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// ReplaceStrokes swaps a page's stroke list for a copy of strokes. Every
// stroke id that appears or disappears is reported as an op.
func (c *Collection) ReplaceStrokes(pageID string, strokes []Stroke) error {
	return c.UpdateStrokes(pageID, func([]Stroke) []Stroke { return strokes })
}

// UpdateStrokes runs fn on a copy of the page's strokes and stores the result,
// all under one lock, so ops applied concurrently are never dropped.
func (c *Collection) UpdateStrokes(pageID string, fn func([]Stroke) []Stroke) error {
	c.mu.Lock()
	i := c.indexOf(pageID)
	if i < 0 {
		c.mu.Unlock()
		return ErrPageNotFound
	}
	ops := c.replaceLocked(i, fn(c.pages[i].clone().Strokes))
	c.mu.Unlock()

	c.notify(Change{Ops: ops, Local: true})
	return nil
}

// UpdateCurrent is UpdateStrokes on the current page. It returns the page id.
func (c *Collection) UpdateCurrent(fn func([]Stroke) []Stroke) string {
	c.mu.Lock()
	i := c.currentIndex()
	id := c.pages[i].ID
	ops := c.replaceLocked(i, fn(c.pages[i].clone().Strokes))
	c.mu.Unlock()

	c.notify(Change{Ops: ops, Local: true})
	return id
}

func (c *Collection) replaceLocked(i int, strokes []Stroke) []Op {
	pageID := c.pages[i].ID
	next := make([]Stroke, len(strokes))
	for j, s := range strokes {
		next[j] = s.clone()
	}

	old := make(map[string]bool, len(c.pages[i].Strokes))
	for _, s := range c.pages[i].Strokes {
		old[s.ID] = true
	}
	kept := make(map[string]bool, len(next))
	var ops []Op
	for j := range next {
		kept[next[j].ID] = true
		if !old[next[j].ID] {
			s := next[j].clone()
			ops = append(ops, c.localOp(Op{Type: OpInsertStroke, PageID: pageID, Stroke: &s}))
		}
	}
	for _, s := range c.pages[i].Strokes {
		if !kept[s.ID] {
			ops = append(ops, c.localOp(Op{Type: OpDeleteStroke, PageID: pageID, Target: s.ID}))
		}
	}

	c.pages[i].Strokes = next
	return ops
}

// CreatePage appends an empty page and makes it current. The id is the
// page count plus one, so it is only unique while pages are never removed
// and never created concurrently on two replicas. If that id is already
// taken the existing page is selected instead.
func (c *Collection) CreatePage() Page {
	c.mu.Lock()
	id := strconv.Itoa(len(c.pages) + 1)
	if i := c.indexOf(id); i >= 0 {
		c.currentID = id
		p := c.pages[i].clone()
		op := c.localOp(Op{Type: OpSelectPage, PageID: id})
		c.mu.Unlock()
		c.notify(Change{Ops: []Op{op}, Local: true})
		return p
	}

	p := Page{ID: id, Strokes: []Stroke{}}
	c.pages = append(c.pages, p)
	c.currentID = id
	op := c.localOp(Op{Type: OpCreatePage, PageID: id})
	c.mu.Unlock()

	c.notify(Change{Ops: []Op{op}, Local: true})
	return p.clone()
}

// SelectPage makes id current. The id one past the page count creates a
// new page instead; any other unknown id is ignored.
func (c *Collection) SelectPage(id string) {
	c.mu.Lock()
	if id == strconv.Itoa(len(c.pages)+1) {
		c.mu.Unlock()
		c.CreatePage()
		return
	}
	if c.indexOf(id) < 0 {
		c.mu.Unlock()
		return
	}
	c.currentID = id
	op := c.localOp(Op{Type: OpSelectPage, PageID: id})
	c.mu.Unlock()

	c.notify(Change{Ops: []Op{op}, Local: true})
}

// Load replaces every page, keeping the current page when it still exists.
func (c *Collection) Load(pages []Page) {
	c.mu.Lock()
	c.pages = normalize(pages)
	if c.indexOf(c.currentID) < 0 {
		c.currentID = c.pages[0].ID
	}
	c.mu.Unlock()

	c.notify(Change{Ops: []Op{{Type: OpLoad}}, Local: false})
}

// Apply merges an op received from another site. Inserts and page
// creations are idempotent by id; deletes of unknown strokes are no-ops.
func (c *Collection) Apply(op Op) {
	c.clock.Update(op.Lamport)

	c.mu.Lock()
	applied := false
	switch op.Type {
	case OpInsertStroke:
		if op.Stroke == nil {
			break
		}
		i := c.ensurePage(op.PageID)
		if !containsStroke(c.pages[i].Strokes, op.Stroke.ID) {
			c.pages[i].Strokes = append(c.pages[i].Strokes, op.Stroke.clone())
			applied = true
		}
	case OpDeleteStroke:
		i := c.indexOf(op.PageID)
		if i < 0 {
			break
		}
		strokes := c.pages[i].Strokes
		for j, s := range strokes {
			if s.ID == op.Target {
				next := make([]Stroke, 0, len(strokes)-1)
				next = append(next, strokes[:j]...)
				c.pages[i].Strokes = append(next, strokes[j+1:]...)
				applied = true
				break
			}
		}
	case OpCreatePage:
		if c.indexOf(op.PageID) < 0 {
			c.ensurePage(op.PageID)
			applied = true
		}
	}
	c.mu.Unlock()

	if applied {
		c.notify(Change{Ops: []Op{op}, Local: false})
	}
}

func (c *Collection) ensurePage(id string) int {
	if i := c.indexOf(id); i >= 0 {
		return i
	}
	c.pages = append(c.pages, Page{ID: id, Strokes: []Stroke{}})
	return len(c.pages) - 1
}

func (c *Collection) localOp(op Op) Op {
	op.Lamport = c.clock.Tick()
	op.Site = c.site
	return op
}

func containsStroke(strokes []Stroke, id string) bool {
	for _, s := range strokes {
		if s.ID == id {
			return true
		}
	}
	return false
}
