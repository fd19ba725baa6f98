// Package debug provides an optional remote frame-viewer: a
// websocket server that pushes PNG-encoded frame buffers to connected
// clients after every completed PPU frame. It is a shell-level debug
// feature, gated behind a CLI flag, and never touches the core
// execution loop: Push is handed a copy of the frame buffer after
// Machine.Step/StepFrame has already returned.
package debug

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024 * 32,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server streams PNG-encoded frames to any number of connected
// websocket clients.
type Server struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewServer returns an empty frame-streaming server.
func NewServer() *Server {
	return &Server{clients: make(map[*websocket.Conn]bool)}
}

// Handler upgrades incoming requests to websocket connections and
// registers them as frame recipients.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.clients[conn] = true
		s.mu.Unlock()

		// Drain and discard client messages so the connection's read
		// side stays alive until the peer disconnects.
		go func() {
			defer s.drop(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// Push PNG-encodes frame and broadcasts it to every connected client,
// dropping any connection that errors on write.
func (s *Server) Push(frame image.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return
	}
	payload := buf.Bytes()

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			go s.drop(conn)
		}
	}
}
