package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"casino-miniapp-gateway/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	redisService *services.RedisService
	hub          *WebSocketHub
	logger       *zap.Logger
}

type WebSocketHub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	SessionID string
	Conn      *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	feedSub bool
}

// write serializes frames onto the connection. The hub goroutine and the
// per-connection reader both send; the websocket allows one writer at a
// time.
func (c *Client) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"-"`
	FeedOnly  bool   `json:"-"`
	Data      any    `json:"data"`
}

func NewWebSocketHandler(redisService *services.RedisService, logger *zap.Logger) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		redisService: redisService,
		hub:          hub,
		logger:       logger,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade to websocket", zap.Error(err))
		return
	}

	client := &Client{
		SessionID: session.SessionID,
		Conn:      conn,
	}

	h.hub.register <- client

	// Teardown cancels delivery: once the client unregisters, pending
	// ticks for this screen are simply dropped.
	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	if session.User != nil {
		h.sendBalance(client, session.User.Balance)
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket error", zap.Error(err))
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.sendPong(client)
	case "SUBSCRIBE_FEED":
		client.setFeedSub(true)
	case "UNSUBSCRIBE_FEED":
		client.setFeedSub(false)
	}
}

func (c *Client) setFeedSub(on bool) {
	c.mu.Lock()
	c.feedSub = on
	c.mu.Unlock()
}

func (c *Client) feedSubscribed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feedSub
}

func (h *WebSocketHandler) sendBalance(client *Client, balance float64) {
	client.write(Message{
		Type: "BALANCE_UPDATE",
		Data: gin.H{"balance": balance},
	})
}

func (h *WebSocketHandler) sendPong(client *Client) {
	client.write(Message{
		Type: "PONG",
		Data: gin.H{"timestamp": time.Now().Unix()},
	})
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.mu.Lock()
			hub.clients[client.SessionID] = client
			hub.mu.Unlock()

		case client := <-hub.unregister:
			hub.mu.Lock()
			if current, ok := hub.clients[client.SessionID]; ok && current == client {
				delete(hub.clients, client.SessionID)
			}
			hub.mu.Unlock()

		case message := <-hub.broadcast:
			hub.deliver(message)
		}
	}
}

func (hub *WebSocketHub) deliver(message *Message) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if message.SessionID != "" {
		if client, ok := hub.clients[message.SessionID]; ok {
			client.write(message)
		}
		return
	}

	for _, client := range hub.clients {
		if message.FeedOnly && !client.feedSubscribed() {
			continue
		}
		client.write(message)
	}
}

// BroadcastBalance pushes the post-bet balance to the owning session.
func (h *WebSocketHandler) BroadcastBalance(sessionID string, balance float64) {
	h.hub.broadcast <- &Message{
		Type:      "BALANCE_UPDATE",
		SessionID: sessionID,
		Data:      gin.H{"balance": balance},
	}
}

// BroadcastPriceTick fans a futures chart sample out to feed subscribers.
func (h *WebSocketHandler) BroadcastPriceTick(point services.PricePoint) {
	h.hub.broadcast <- &Message{
		Type:     "PRICE_TICK",
		FeedOnly: true,
		Data:     point,
	}
}
