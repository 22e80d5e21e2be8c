// Package websocket streams live game events to browser clients and accepts
// move, undo and restart commands over the same connection.
package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 32

	// Swipes shorter than this, in client units, are ignored.
	minSwipeDistance = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message types sent to clients.
const (
	TypeState  = "state"
	TypeEvent  = "event"
	TypeResult = "result"
	TypeError  = "error"
)

// Message is a frame sent to a client.
type Message struct {
	Type      string       `json:"type"`
	SessionID string       `json:"session_id"`
	Action    string       `json:"action,omitempty"`
	OK        bool         `json:"ok"`
	Event     *t2048.Event `json:"event,omitempty"`
	View      *t2048.View  `json:"view,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Command is a frame received from a client.
//
// A move names a direction, or gives a discrete axis signal in X and Y
// (positive Y is up). A swipe carries the raw gesture delta in DX and DY and
// moves along its dominant axis.
type Command struct {
	Action    string  `json:"action"`
	Direction string  `json:"direction,omitempty"`
	X         *int    `json:"x,omitempty"`
	Y         *int    `json:"y,omitempty"`
	DX        float64 `json:"dx,omitempty"`
	DY        float64 `json:"dy,omitempty"`
}

func (cmd Command) hasAxes() bool {
	return cmd.X != nil || cmd.Y != nil
}

func (cmd Command) axes() (int, int) {
	var x, y int
	if cmd.X != nil {
		x = *cmd.X
	}
	if cmd.Y != nil {
		y = *cmd.Y
	}
	return x, y
}

// Hub tracks the connected clients of every session.
type Hub struct {
	manager *session.Manager
	logger  *log.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHub creates a hub serving sessions from m.
func NewHub(m *session.Manager, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default().WithPrefix("ws")
	}
	return &Hub{
		manager: m,
		logger:  logger,
		clients: make(map[*Client]struct{}),
	}
}

// ServeWS upgrades the request and attaches the connection to sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	sess, err := h.manager.Get(sessionID)
	if err != nil {
		http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session", sessionID, "error", err)
		return
	}

	c := &Client{
		hub:     h,
		conn:    conn,
		session: sess,
		sub:     sess.Subscribe(0),
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}
	h.add(c)

	v := sess.View()
	c.queue(Message{Type: TypeState, SessionID: sess.ID(), OK: true, View: &v})

	go c.writePump()
	go c.readPump()
}

// Clients returns the number of clients attached to sessionID.
func (h *Hub) Clients(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for c := range h.clients {
		if strings.EqualFold(c.session.ID(), sessionID) {
			n++
		}
	}
	return n
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client connected", "session", c.session.ID(), "clients", n)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client disconnected", "session", c.session.ID(), "clients", n)
}

// Client is one websocket connection bound to a session.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	session *session.Session
	sub     *session.Subscriber

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.session.Unsubscribe(c.sub)
		c.hub.remove(c)
		_ = c.conn.Close()
	})
}

// queue hands msg to the write pump, dropping it when the client lags.
func (c *Client) queue(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("cannot encode message", "type", msg.Type, "error", err)
		return
	}

	select {
	case c.send <- data:
	case <-c.done:
	default:
		c.hub.logger.Warn("send queue full, dropping message", "session", c.session.ID(), "type", msg.Type)
	}
}

// handle applies one command to the session and returns the reply.
func (c *Client) handle(cmd Command) Message {
	reply := Message{Type: TypeResult, SessionID: c.session.ID(), Action: cmd.Action}

	switch strings.ToLower(cmd.Action) {
	case "move":
		var (
			out t2048.MoveOutcome
			v   t2048.View
			err error
		)
		if cmd.hasAxes() {
			x, y := cmd.axes()
			out, v, err = c.session.MoveAxes(x, y)
		} else {
			var dir t2048.Direction
			dir, err = t2048.ParseDirection(cmd.Direction)
			if err == nil && dir == t2048.DirNone {
				err = t2048.ErrInvalidMove
			}
			if err == nil {
				out, v, err = c.session.Move(dir)
			}
		}
		if err != nil {
			return Message{Type: TypeError, SessionID: c.session.ID(), Action: cmd.Action, Error: err.Error()}
		}
		reply.OK = out.Moved
		reply.View = &v
	case "swipe":
		dir := t2048.ResolveGesture(cmd.DX, cmd.DY, minSwipeDistance)
		if dir == t2048.DirNone {
			v := c.session.View()
			reply.View = &v
			break
		}
		out, v, err := c.session.Move(dir)
		if err != nil {
			return Message{Type: TypeError, SessionID: c.session.ID(), Action: cmd.Action, Error: err.Error()}
		}
		reply.OK = out.Moved
		reply.View = &v
	case "undo":
		v, ok := c.session.Undo()
		reply.OK = ok
		reply.View = &v
	case "restart":
		v := c.session.Restart()
		reply.OK = true
		reply.View = &v
	case "state":
		v := c.session.View()
		reply.OK = true
		reply.View = &v
	default:
		return Message{Type: TypeError, SessionID: c.session.ID(), Action: cmd.Action, Error: "unknown action"}
	}
	return reply
}

// readPump reads commands until the connection fails.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", "session", c.session.ID(), "error", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.queue(Message{Type: TypeError, SessionID: c.session.ID(), Error: "malformed command"})
			continue
		}
		c.queue(c.handle(cmd))
	}
}

// writePump forwards session events and queued replies to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case e := <-c.sub.Events():
			data, err := json.Marshal(Message{Type: TypeEvent, SessionID: c.session.ID(), OK: true, Event: &e})
			if err != nil {
				continue
			}
			if !c.write(websocket.TextMessage, data) {
				return
			}

		case data := <-c.send:
			if !c.write(websocket.TextMessage, data) {
				return
			}

		case <-ticker.C:
			if !c.write(websocket.PingMessage, nil) {
				return
			}

		case <-c.sub.Done():
			// Session deleted.
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
			return

		case <-c.done:
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(messageType, data); err != nil {
		if !errors.Is(err, websocket.ErrCloseSent) {
			c.hub.logger.Debug("websocket write failed", "session", c.session.ID(), "error", err)
		}
		return false
	}
	return true
}
