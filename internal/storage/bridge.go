package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"SketchBoard/internal/logger"
	"SketchBoard/internal/state"
)

const DefaultKey = "drawing-canvas-files"

// Bridge moves the whole page collection in and out of a single store entry.
type Bridge struct {
	store Store
	key   string
	log   *logger.Logger
}

func NewBridge(store Store, key string, log *logger.Logger) *Bridge {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Bridge{store: store, key: key, log: log}
}

func (b *Bridge) Save(pages []state.Page) error {
	data, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("failed to encode pages: %w", err)
	}
	if err := b.store.Set(b.key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.key, err)
	}
	b.log.Debug("[storage] saved %d pages (%d bytes)", len(pages), len(data))
	return nil
}

// Load never fails: an absent, unreadable or empty entry gives the default
// single empty page.
func (b *Bridge) Load() []state.Page {
	raw, err := b.store.Get(b.key)
	if errors.Is(err, ErrNotFound) {
		b.log.Debug("[storage] no saved pages, starting fresh")
		return state.DefaultPages()
	}
	if err != nil {
		b.log.Error("[storage] error loading pages: %v", err)
		return state.DefaultPages()
	}

	var pages []state.Page
	if err := json.Unmarshal([]byte(raw), &pages); err != nil {
		b.log.Error("[storage] error parsing saved pages: %v", err)
		return state.DefaultPages()
	}
	if len(pages) == 0 {
		return state.DefaultPages()
	}
	for i := range pages {
		if pages[i].Strokes == nil {
			pages[i].Strokes = []state.Stroke{}
		}
	}
	b.log.Debug("[storage] loaded %d pages", len(pages))
	return pages
}
