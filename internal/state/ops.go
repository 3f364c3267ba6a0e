package state

import (
	"sync"

	"github.com/google/uuid"
)

type OpType string

const (
	OpInsertStroke OpType = "insert_stroke"
	OpDeleteStroke OpType = "delete_stroke"
	OpCreatePage   OpType = "create_page"
	OpSelectPage   OpType = "select_page"
	OpLoad         OpType = "load"
)

// Op describes one change to a Collection. Local ops carry this
// collection's site id and the next Lamport tick.
type Op struct {
	Type    OpType  `json:"type"`
	PageID  string  `json:"page_id,omitempty"`
	Stroke  *Stroke `json:"stroke,omitempty"`
	Target  string  `json:"target,omitempty"` // stroke id for deletes
	Lamport uint64  `json:"lamport"`
	Site    string  `json:"site"`
}

// Shared reports whether the op is part of the replicated board history.
// Page selection and whole loads are per-client.
func (op Op) Shared() bool {
	switch op.Type {
	case OpInsertStroke, OpDeleteStroke, OpCreatePage:
		return true
	}
	return false
}

// Change is delivered to subscribers after every mutation.
type Change struct {
	Ops   []Op
	Local bool
}

func (c Change) Has(t OpType) bool {
	for _, op := range c.Ops {
		if op.Type == t {
			return true
		}
	}
	return false
}

// Clock is a Lamport clock.
type Clock struct {
	counter uint64
	mu      sync.Mutex
}

func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter
}

// Update moves the clock past a timestamp seen from another site.
func (c *Clock) Update(timestamp uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timestamp > c.counter {
		c.counter = timestamp
	}
}

func newStrokeID() string {
	return uuid.NewString()
}

func newSiteID() string {
	return uuid.NewString()
}
