package priceboard

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var errHubStopped = errors.New("board hub stopped")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Hub fans board messages out to connected dashboard clients. The board feed
// is one-way; client frames are read only to service pings and detect
// closes.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan BoardMessage
	register   chan *client
	unregister chan *client
	stop       chan struct{}
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan BoardMessage
}

// NewHub creates the hub and starts its run loop.
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan BoardMessage, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		stop:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The dashboard fronts this behind the same origin; tighten
				// when the portal gets a public hostname.
				return true
			},
		},
		logger: logger,
	}
	go h.run()
	return h
}

// HandleConnection upgrades an HTTP request into a board feed subscription.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan BoardMessage, 16),
	}

	// The run loop is the only reader of register; once the hub is stopped
	// the send would block forever.
	select {
	case h.register <- c:
	case <-h.stop:
		conn.Close()
		return errHubStopped
	}

	go h.readPump(c)
	go h.writePump(c)
	return nil
}

// Broadcast queues a message for every connected client. Drops the message
// when the hub is backed up rather than blocking a refresh.
func (h *Hub) Broadcast(msg BoardMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("board broadcast channel full, dropping snapshot")
	}
}

// Stop closes every client and ends the run loop.
func (h *Hub) Stop() {
	close(h.stop)
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("board client connected", zap.String("id", c.id))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("board client disconnected", zap.String("id", c.id))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}

		case <-h.stop:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		}
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("board client read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
