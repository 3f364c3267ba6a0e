package net

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SketchBoard/internal/logger"
	"SketchBoard/internal/state"
)

const (
	BoardPath = "/board"

	MsgSnapshot = "snapshot"
	MsgOp       = "op"

	writeWait = 10 * time.Second
)

// Message is the single frame type exchanged between host and peers.
type Message struct {
	Type  string       `json:"type"`
	Pages []state.Page `json:"pages,omitempty"`
	Op    *state.Op    `json:"op,omitempty"`
}

// Peer is one websocket connection. Writes are serialized per connection.
type Peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *Peer) send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sendLocked(msg)
}

func (p *Peer) sendLocked(msg Message) error {
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteJSON(msg)
}

func (p *Peer) addr() string {
	return p.conn.RemoteAddr().String()
}

// Hub is run by the HOST. New peers receive a snapshot of every page, then
// ops flow both ways: peer ops are applied locally and relayed to the other
// peers, and the host's own ops are broadcast to everyone.
type Hub struct {
	pages    *state.Collection
	log      *logger.Logger
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	peers  map[*Peer]bool
	cancel func()
}

func NewHub(pages *state.Collection, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Discard()
	}
	h := &Hub{
		pages: pages,
		log:   log,
		peers: make(map[*Peer]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	h.cancel = pages.Subscribe(h.onChange)
	return h
}

func (h *Hub) onChange(ch state.Change) {
	if !ch.Local {
		return
	}
	for _, op := range ch.Ops {
		if !op.Shared() {
			continue
		}
		op := op
		h.broadcast(Message{Type: MsgOp, Op: &op}, nil)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("[HOST] websocket upgrade failed: %v", err)
		return
	}
	peer := &Peer{conn: conn}

	// Hold the peer's write lock across registration and the snapshot so
	// no broadcast can overtake the snapshot.
	peer.mu.Lock()
	h.add(peer)
	err = peer.sendLocked(Message{Type: MsgSnapshot, Pages: h.pages.Pages()})
	peer.mu.Unlock()
	if err != nil {
		h.log.Error("[HOST] failed to send snapshot to %s: %v", peer.addr(), err)
		h.remove(peer)
		return
	}

	h.readLoop(peer)
}

func (h *Hub) readLoop(peer *Peer) {
	defer h.remove(peer)
	for {
		var msg Message
		if err := peer.conn.ReadJSON(&msg); err != nil {
			h.log.Info("[HOST] client %s disconnected: %v", peer.addr(), err)
			return
		}
		if msg.Type != MsgOp || msg.Op == nil || !msg.Op.Shared() {
			h.log.Debug("[HOST] ignoring %q from %s", msg.Type, peer.addr())
			continue
		}
		h.log.Trace("[HOST] received %s from %s", msg.Op.Type, peer.addr())
		h.pages.Apply(*msg.Op)
		h.broadcast(msg, peer)
	}
}

func (h *Hub) add(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = true
	h.log.Info("[HOST] client connected from %s", p.addr())
}

func (h *Hub) remove(p *Peer) {
	h.mu.Lock()
	_, ok := h.peers[p]
	delete(h.peers, p)
	h.mu.Unlock()
	if ok {
		p.conn.Close()
	}
}

func (h *Hub) broadcast(msg Message, exclude *Peer) {
	h.mu.RLock()
	targets := make([]*Peer, 0, len(h.peers))
	for p := range h.peers {
		if p != exclude {
			targets = append(targets, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range targets {
		if err := p.send(msg); err != nil {
			h.log.Error("[HOST] error sending to %s: %v", p.addr(), err)
		}
	}
}

// Peers reports how many clients are connected.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects every peer and stops broadcasting local changes.
func (h *Hub) Close() {
	h.cancel()
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[*Peer]bool)
	h.mu.Unlock()
	for p := range peers {
		p.conn.Close()
	}
}

// Serve listens on port and serves the hub until the server is shut down.
func (h *Hub) Serve(port int) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle(BoardPath, h)
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start share server on port %d: %w", port, err)
	}
	h.log.Info("[HOST] share server listening on port %d", port)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			h.log.Error("[HOST] share server stopped: %v", err)
		}
	}()
	return srv, nil
}
