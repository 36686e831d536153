package handlers

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// TrendingHub fans trending snapshots out to WebSocket subscribers.
type TrendingHub struct {
	logger     *zap.Logger
	clients    map[string]*wsClient
	register   chan *wsClient
	unregister chan string
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewTrendingHub(logger *zap.Logger) *TrendingHub {
	h := &TrendingHub{
		logger:     logger,
		clients:    make(map[string]*wsClient),
		register:   make(chan *wsClient),
		unregister: make(chan string),
		broadcast:  make(chan []byte, 16),
	}
	go h.run()
	return h
}

func (h *TrendingHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Debug("trending subscriber connected", zap.String("client_id", client.id))

		case id := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[id]; ok {
				delete(h.clients, id)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop the frame rather than block
					// the fan-out.
					h.logger.Warn("dropping trending frame", zap.String("client_id", client.id))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast implements services.TrendingBroadcaster.
func (h *TrendingHub) Broadcast(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("trending broadcast queue full")
	}
}

func (h *TrendingHub) add(conn *websocket.Conn) *wsClient {
	client := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, 8),
	}
	h.register <- client
	return client
}

func (h *TrendingHub) remove(client *wsClient) {
	h.unregister <- client.id
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; the feed is one-way. It unblocks
// when the peer goes away.
func (c *wsClient) readPump(h *TrendingHub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
