package net

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"SketchBoard/internal/logger"
	"SketchBoard/internal/state"
)

// Session is a CLIENT's live connection to a host's board.
type Session struct {
	peer   *Peer
	pages  *state.Collection
	log    *logger.Logger
	cancel func()

	done    chan struct{}
	errMu   sync.Mutex
	err     error
	closing sync.Once
}

// Join connects to a hub at url (ws://host:port/board), replaces pages with
// the host's snapshot, then keeps both sides in step until the context is
// cancelled or the connection drops.
func Join(ctx context.Context, url string, pages *state.Collection, log *logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.Discard()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connection to %s failed: %w", url, err)
	}

	var first Message
	if err := conn.ReadJSON(&first); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read board snapshot: %w", err)
	}
	if first.Type != MsgSnapshot {
		conn.Close()
		return nil, fmt.Errorf("expected %s from host, got %q", MsgSnapshot, first.Type)
	}
	pages.Load(first.Pages)
	log.Info("[CLIENT] joined %s with %d pages", url, pages.Len())

	s := &Session{
		peer:  &Peer{conn: conn},
		pages: pages,
		log:   log,
		done:  make(chan struct{}),
	}
	s.cancel = pages.Subscribe(s.onChange)
	go s.readLoop()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
	return s, nil
}

func (s *Session) onChange(ch state.Change) {
	if !ch.Local {
		return
	}
	for _, op := range ch.Ops {
		if !op.Shared() {
			continue
		}
		op := op
		if err := s.peer.send(Message{Type: MsgOp, Op: &op}); err != nil {
			s.log.Error("[CLIENT] failed to send %s: %v", op.Type, err)
		}
	}
}

func (s *Session) readLoop() {
	defer close(s.done)
	site := s.pages.Site()
	for {
		var msg Message
		if err := s.peer.conn.ReadJSON(&msg); err != nil {
			s.setErr(err)
			s.cancel()
			s.log.Info("[CLIENT] disconnected from host: %v", err)
			return
		}
		if msg.Type != MsgOp || msg.Op == nil {
			continue
		}
		// our own ops come back only if the host echoes them
		if msg.Op.Site == site {
			continue
		}
		s.pages.Apply(*msg.Op)
	}
}

func (s *Session) setErr(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Done is closed once the connection has ended.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err is the reason the session ended; nil after a clean Close.
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if errors.Is(s.err, errClosed) {
		return nil
	}
	return s.err
}

var errClosed = errors.New("session closed")

func (s *Session) Close() error {
	var err error
	s.closing.Do(func() {
		s.setErr(errClosed)
		s.cancel()
		s.peer.mu.Lock()
		s.peer.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.peer.mu.Unlock()
		err = s.peer.conn.Close()
	})
	return err
}
