// Package ws pushes state changes to browsers over WebSocket.
//
// Every committed dispatch is broadcast as a Frame: the action name plus
// the new tree with the session token removed. A client receives the
// current tree right after connecting, so it never has to poll.
//
//	hub := ws.NewHub(st.State)
//	go hub.Run(ctx)
//	unsubscribe := hub.Attach(st.Bus())
//	router.Handle("/ws", hub)
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/state"
	"github.com/shashiranjanraj/storefront/pkg/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 16
)

// Frame is one message sent to clients.
type Frame struct {
	Action    string      `json:"action"`
	State     state.State `json:"state"`
	ItemCount int         `json:"itemCount"`
}

// NewFrame builds the frame for s. The session token never leaves the process.
func NewFrame(action string, s state.State) Frame {
	s = s.Clone()
	if s.Session != nil {
		s.Session.Token = ""
	}
	return Frame{Action: action, State: s, ItemCount: s.Cart.ItemCount()}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump only services control frames; clients have nothing to say.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
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
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// Hub fans frames out to every connected client.
type Hub struct {
	current    func() state.State
	upgrader   websocket.Upgrader
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	count      chan chan int
}

// NewHub creates a hub whose new clients are greeted with current().
func NewHub(current func() state.State) *Hub {
	return &Hub{
		current: current,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		count:      make(chan chan int),
	}
}

// SetCheckOrigin replaces the same-origin check gorilla applies by default.
func (h *Hub) SetCheckOrigin(fn func(r *http.Request) bool) {
	h.upgrader.CheckOrigin = fn
}

// Attach broadcasts every store change fired on bus. It returns the
// unsubscribe function.
func (h *Hub) Attach(bus *event.Bus) func() {
	return bus.Listen(store.EventChanged, func(payload any) {
		ch, ok := payload.(store.Change)
		if !ok {
			return
		}
		h.Publish(NewFrame(ch.Action.String(), ch.State))
	})
}

// Publish queues f for every client. It never blocks the caller: when the
// hub is behind, the frame is dropped and clients catch up on the next one.
func (h *Hub) Publish(f Frame) {
	raw, err := json.Marshal(f)
	if err != nil {
		logger.Error("ws: encode frame", "error", err)
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		logger.Warn("ws: hub busy, frame dropped", "action", f.Action)
	}
}

// Run is the hub loop. It returns when ctx is done, closing every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			logger.Info("ws: client connected", "total", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				logger.Info("ws: client disconnected", "total", len(h.clients))
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

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// ClientCount asks the running hub how many clients are connected.
func (h *Hub) ClientCount() int {
	reply := make(chan int)
	h.count <- reply
	return <-reply
}

// ServeHTTP upgrades the connection, sends the current tree and registers
// the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("ws: upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	if raw, err := json.Marshal(NewFrame("SNAPSHOT", h.current())); err == nil {
		c.send <- raw
	}
	h.register <- c
	go c.writePump()
	go c.readPump()
}
