package storage

import (
	"sync"
	"time"

	"SketchBoard/internal/logger"
	"SketchBoard/internal/state"
)

const DefaultDebounce = 10 * time.Second

// Saver keeps the store in step with a Collection. Stroke edits are
// debounced; structural changes (new pages, whole loads) are written at once.
type Saver struct {
	pages  *state.Collection
	bridge *Bridge
	log    *logger.Logger

	debounce  *Debouncer
	cancel    func()
	closeOnce sync.Once

	// OnError, when set, is told about failed writes after they are logged.
	OnError func(error)
}

func NewSaver(pages *state.Collection, bridge *Bridge, delay time.Duration, log *logger.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if log == nil {
		log = logger.Discard()
	}
	s := &Saver{pages: pages, bridge: bridge, log: log}
	s.debounce = NewDebouncer(delay, s.save)
	s.cancel = pages.Subscribe(s.onChange)
	return s
}

func (s *Saver) onChange(ch state.Change) {
	switch {
	case ch.Has(state.OpCreatePage), ch.Has(state.OpLoad):
		s.debounce.Cancel()
		s.save()
	case ch.Has(state.OpInsertStroke), ch.Has(state.OpDeleteStroke):
		s.debounce.Trigger()
	}
}

func (s *Saver) save() {
	if err := s.bridge.Save(s.pages.Pages()); err != nil {
		s.log.Error("[storage] error saving pages: %v", err)
		if s.OnError != nil {
			s.OnError(err)
		}
	}
}

// Pending reports whether a debounced write is waiting.
func (s *Saver) Pending() bool {
	return s.debounce.Pending()
}

// Close writes any pending change, unsubscribes and stops the timer so
// nothing is written after shutdown.
func (s *Saver) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.debounce.Flush()
		s.debounce.Stop()
	})
}
