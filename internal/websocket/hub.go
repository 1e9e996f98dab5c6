package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"design-team-be/internal/pkg/logger"
	"design-team-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Hub fans workflow events out to the websocket clients watching each
// session. It is fed by the in-process bus the sequencer publishes on.
type Hub struct {
	// clients maps session id to the connections streaming it. One
	// session can have several watchers (operator dashboards, tooling).
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	subscriber message.Subscriber
	topic      string

	logger logger.ILogger
}

func NewHub(subscriber message.Subscriber, topic string, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscriber: subscriber,
		topic:      topic,
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.subscriber != nil {
		go h.consume(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "client registered", map[string]interface{}{"session_id": client.SessionID.String()})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// consume routes bus messages to the clients of the session they belong to.
func (h *Hub) consume(ctx context.Context) {
	messages, err := h.subscriber.Subscribe(ctx, h.topic)
	if err != nil {
		h.logger.Error("Hub", "failed to subscribe to workflow events", map[string]interface{}{"error": err.Error()})
		return
	}

	for msg := range messages {
		var evt events.SessionEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			h.logger.Warn("Hub", "dropping malformed bus message", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}
		h.dispatch(evt.SessionId, msg.Payload)
		msg.Ack()
	}
}

func (h *Hub) dispatch(sessionId uuid.UUID, payload []byte) {
	h.mu.RLock()
	clients := h.clients[sessionId]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
			// Slow consumer; drop the connection rather than block the bus.
			h.logger.Warn("Hub", "client send buffer full, dropping connection", map[string]interface{}{
				"session_id": sessionId.String(),
			})
			h.unregister <- client
		}
	}
}
