package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/events"
)

// Hub bridges the in-process event broker to WebSocket clients. Clients
// join one or more topics on connect; the hub holds one broker
// subscription per topic with at least one client and fans deliveries out
// to every client on that topic.
type Hub struct {
	broker events.Broker

	// Registered clients organized by topic
	clients map[string]map[*Client]bool

	// Broker subscription cancels by topic
	subCancels map[string]func()

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Serialized events arriving from broker subscriptions
	deliver chan delivery

	// Closed on shutdown
	done chan struct{}

	mu sync.RWMutex

	logger zerolog.Logger
}

type delivery struct {
	topic string
	data  []byte
}

// NewHub creates a new Hub on top of broker.
func NewHub(broker events.Broker, logger zerolog.Logger) *Hub {
	return &Hub{
		broker:     broker,
		clients:    make(map[string]map[*Client]bool),
		subCancels: make(map[string]func()),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and event deliveries.
// It returns after Close.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliver:
			h.deliverToTopic(d)

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Close stops the hub and disconnects every client.
func (h *Hub) Close() {
	close(h.done)
}

// registerClient joins a client to each of its topics, opening a broker
// subscription for any topic that had no clients.
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range client.topics {
		if _, ok := h.clients[topic]; !ok {
			h.clients[topic] = make(map[*Client]bool)
			h.subscribeTopic(topic)
		}
		h.clients[topic][client] = true
	}

	h.logger.Info().
		Int64("userID", client.userID).
		Strs("topics", client.topics).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("WebSocket client registered")
}

// unregisterClient removes a client from all its topics, cancelling the
// broker subscription for any topic left empty.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := false
	for _, topic := range client.topics {
		clients, ok := h.clients[topic]
		if !ok {
			continue
		}
		if _, ok := clients[client]; !ok {
			continue
		}
		delete(clients, client)
		removed = true

		if len(clients) == 0 {
			delete(h.clients, topic)
			if cancel, ok := h.subCancels[topic]; ok {
				cancel()
				delete(h.subCancels, topic)
			}
		}
	}

	if removed {
		close(client.send)
		h.logger.Info().
			Int64("userID", client.userID).
			Strs("topics", client.topics).
			Msg("WebSocket client unregistered")
	}
}

// subscribeTopic opens a broker subscription and pumps its events into the
// deliver channel. Caller holds h.mu.
func (h *Hub) subscribeTopic(topic string) {
	ch, cancel := h.broker.Subscribe(topic)
	h.subCancels[topic] = cancel

	go func() {
		for event := range ch {
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error().
					Err(err).
					Str("topic", topic).
					Str("event", event.Event).
					Msg("Failed to marshal event for delivery")
				continue
			}
			select {
			case h.deliver <- delivery{topic: topic, data: data}:
			case <-h.done:
				return
			}
		}
	}()
}

// deliverToTopic fans one serialized event out to every client on the
// topic. Clients with a full send buffer are dropped.
func (h *Hub) deliverToTopic(d delivery) {
	h.mu.RLock()
	clients, ok := h.clients[d.topic]
	if !ok {
		h.mu.RUnlock()
		return
	}

	var slow []*Client
	for client := range clients {
		select {
		case client.send <- d.data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn().
			Int64("userID", client.userID).
			Str("topic", d.topic).
			Msg("Dropping slow WebSocket client")
		h.unregisterClient(client)
	}
}

// closeAll disconnects every client and cancels every subscription.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	closed := make(map[*Client]bool)
	for topic, clients := range h.clients {
		for client := range clients {
			if !closed[client] {
				close(client.send)
				closed[client] = true
			}
		}
		if cancel, ok := h.subCancels[topic]; ok {
			cancel()
			delete(h.subCancels, topic)
		}
		delete(h.clients, topic)
	}
}

// ClientCount returns the number of clients joined to a topic.
func (h *Hub) ClientCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[topic])
}
