package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/planmyevents/internal/notify"
)

const (
	// streamBuffer is how many changes a client may lag behind before it is
	// disconnected.
	streamBuffer = 64
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Any page may follow the change stream
		return true
	},
}

// streamHub tracks the websocket clients following the change stream
type streamHub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
}

func newStreamHub() *streamHub {
	return &streamHub{clients: make(map[*streamClient]struct{})}
}

type streamClient struct {
	conn *websocket.Conn
	send chan notify.Change
	done chan struct{}
	once sync.Once
}

// enqueue is called by the bus while a mutation is being published, so it
// must never block. A client whose buffer is full is dropped.
func (c *streamClient) enqueue(change notify.Change) {
	select {
	case c.send <- change:
	default:
		c.stop()
	}
}

func (c *streamClient) stop() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *streamClient) writeLoop(logger *logrus.Logger) {
	for {
		select {
		case change := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(change); err != nil {
				logger.WithError(err).Debug("Change stream write failed")
				c.stop()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *streamHub) add(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *streamHub) remove(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *streamHub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// close sends a close frame to every client and drops them
func (h *streamHub) close() {
	h.mu.Lock()
	clients := make([]*streamClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.stop()
	}
}

// ---------------------------------------------------------------------------
// Change stream
// ---------------------------------------------------------------------------

// handleStream upgrades to a websocket and forwards every committed change as
// a JSON text message. Incoming messages are discarded.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := &streamClient{
		conn: conn,
		send: make(chan notify.Change, streamBuffer),
		done: make(chan struct{}),
	}
	unsubscribe := s.svc.Bus().Subscribe(client.enqueue)
	s.streams.add(client)
	s.logger.WithField("remote", r.RemoteAddr).Debug("Change stream client connected")

	go client.writeLoop(s.logger)

	for {
		// Keeps the connection open until the client goes away
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	unsubscribe()
	s.streams.remove(client)
	client.stop()
	s.logger.WithField("remote", r.RemoteAddr).Debug("Change stream client disconnected")
}
