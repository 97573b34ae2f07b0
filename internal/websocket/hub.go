package websocket

import (
	"context"
	"io"
	"sync"

	"BlockJack/internal/session"

	"github.com/charmbracelet/log"
)

type HubInterface interface {
	Broadcast(msg OutgoingMessage)
	Count() int
	Close()
}

// Hub 观战推送中心：所有观战连接共享同一条广播
type Hub struct {
	clients    map[string]*Client // client id -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan OutgoingMessage
	quit       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan OutgoingMessage, 64),
		quit:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	h.logger.Info("hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("spectator joined", "client", c.ID, "count", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.ID]; ok {
				delete(h.clients, c.ID)
				close(c.Send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("spectator left", "client", c.ID, "count", n)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// 慢观战端直接丢消息，不能拖住 hub
				}
			}
			h.mu.RUnlock()

		case <-h.quit:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.quit:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Broadcast 不阻塞调用方；队列满时丢弃
func (h *Hub) Broadcast(msg OutgoingMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping", "event", msg.Event)
	}
}

// RoundSettled 作为 GameManager 的结算回调，推送给所有观战端
func (h *Hub) RoundSettled(_ context.Context, r session.Report) error {
	h.Broadcast(OutgoingMessage{Event: "round_settled", Data: r})
	return nil
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}
