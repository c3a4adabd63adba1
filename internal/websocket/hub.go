package websocket

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lenslive/lens/internal/metrics"
	"github.com/lenslive/lens/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio and image frames

	// Outbound buffer. Agent audio at 24kHz s16le arrives in small chunks,
	// so this covers several seconds of playback before writes block.
	sendQueueDepth = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active clients, one per guidance session.
type Hub struct {
	// Registered clients keyed by session ID.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	controller        *session.FailoverController
	inputSampleRateHz int

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(controller *session.FailoverController, inputSampleRateHz int, logger *zap.Logger) *Hub {
	return &Hub{
		clients:           make(map[string]*Client),
		register:          make(chan *Client),
		unregister:        make(chan *Client),
		controller:        controller,
		inputSampleRateHz: inputSampleRateHz,
		logger:            logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.sessionID] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("sessionID", client.sessionID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.sessionID]; ok {
				delete(h.clients, client.sessionID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("sessionID", client.sessionID))
		}
	}
}

// ActiveSessions returns the IDs of currently connected sessions.
func (h *Hub) ActiveSessions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

type WriteData struct {
	// MessageType is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte

	// generation stamps binary audio with the barge-in counter at enqueue
	// time so the write pump can drop playback that was cut off.
	generation uint64
}

// Client is a middleman between the websocket connection and the session core.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	// Session ID for this client
	sessionID string

	// Closed when the write pump exits; senders use it to stop blocking.
	done chan struct{}

	// Incremented on barge-in. Audio frames stamped with an older value are
	// stale playback and get dropped.
	muteGen atomic.Uint64

	// Logger
	logger *zap.Logger
}

// HandleWebSocket upgrades the connection and runs one guidance session over
// it. It blocks until the session is over, then tears the connection down.
func HandleWebSocket(hub *Hub, c echo.Context, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	sessionID := uuid.NewString()
	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan WriteData, sendQueueDepth),
		sessionID: sessionID,
		done:      make(chan struct{}),
		logger:    logger.With(zap.String("sessionID", sessionID)),
	}

	client.hub.register <- client
	metrics.SessionsTotal.Inc()
	metrics.SessionsActive.Inc()

	sess := session.New(sessionID)
	bridge := session.NewClientBridge(sess.Channels(), hub.inputSampleRateHz, client.logger)

	// ctx ends when the client disconnects; the controller ends everything else.
	ctx, cancel := context.WithCancel(context.Background())
	go client.writePump()
	go client.readPump(ctx, cancel, bridge)

	if err := hub.controller.Run(ctx, sess, client); err != nil {
		client.logger.Warn("Session ended with upstream failure", zap.Error(err))
	}

	cancel()
	client.hub.unregister <- client
	metrics.SessionsActive.Dec()
	return nil
}

// readPump pumps messages from the websocket connection into the session's
// input channels via the bridge. Cancels ctx when the client goes away.
func (c *Client) readPump(ctx context.Context, cancel context.CancelFunc, bridge *session.ClientBridge) {
	defer func() {
		cancel()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			if err := bridge.HandleBinary(ctx, message); err != nil {
				return
			}
		case websocket.TextMessage:
			if err := bridge.HandleText(ctx, message); err != nil {
				return
			}
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the send channel to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		close(c.done)
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if message.Type == websocket.BinaryMessage && message.generation < c.muteGen.Load() {
				// Playback from before a barge-in.
				continue
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
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

// WriteEvent delivers a structured event frame. Blocks until the write pump
// accepts it; a stalled peer is bounded by the pump's write deadline.
func (c *Client) WriteEvent(payload []byte) error {
	return c.enqueue(WriteData{Type: websocket.TextMessage, Payload: payload})
}

// WriteAudio delivers an agent audio chunk for playback.
func (c *Client) WriteAudio(pcm []byte) error {
	return c.enqueue(WriteData{
		Type:       websocket.BinaryMessage,
		Payload:    pcm,
		generation: c.muteGen.Load(),
	})
}

// BargeIn invalidates all audio enqueued so far. Frames already handed to the
// OS socket cannot be recalled; the client mutes those on its side.
func (c *Client) BargeIn() {
	c.muteGen.Add(1)
}

func (c *Client) enqueue(data WriteData) error {
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errClientClosed
	}
}
