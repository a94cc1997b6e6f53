package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"gigscout/pkg/explore"
)

// StreamHandler pushes session snapshots to websocket clients. It fans
// out every controller change to all connected clients; a client that
// cannot keep up is dropped rather than allowed to stall the others.
type StreamHandler struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan explore.Snapshot
}

func NewStreamHandler(ctrl *explore.Controller) *StreamHandler {
	h := &StreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Local-only server; the browser UI connects from file:// or
			// localhost, so origin checking buys nothing here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan explore.Snapshot),
	}
	ctrl.OnChange(h.Broadcast)
	return h
}

// Broadcast queues a snapshot for every connected client.
func (h *StreamHandler) Broadcast(snap explore.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- snap:
		default:
			slog.Warn("Dropping slow stream client", "remote", conn.RemoteAddr())
			delete(h.clients, conn)
			close(ch)
		}
	}
}

func (h *StreamHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err)
		return
	}

	ch := make(chan explore.Snapshot, 16)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	slog.Debug("Stream client connected", "remote", conn.RemoteAddr())

	go h.writeLoop(conn, ch)

	// Drain (and ignore) client frames so pings and close frames are
	// processed; a read error means the client went away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

func (h *StreamHandler) writeLoop(conn *websocket.Conn, ch <-chan explore.Snapshot) {
	for snap := range ch {
		if err := conn.WriteJSON(snap); err != nil {
			slog.Debug("Stream write failed", "remote", conn.RemoteAddr(), "error", err)
			h.drop(conn)
			return
		}
	}
	_ = conn.Close()
}

func (h *StreamHandler) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()
	_ = conn.Close()
}
