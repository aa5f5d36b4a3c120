package hub

import (
	"encoding/json"
	"sync"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/broker"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/config"
	"github.com/shivrajcodez/Real-Time-Chat-App/pkg/log"
)

// Hub is the WebSocket implementation of the broadcast fabric: it tracks
// live connections, their topic subscriptions, and fans published frames
// out to subscribers. Run must be started before use.
type Hub struct {
	clients    map[string]*Client            // connID -> client
	topics     map[string]map[string]*Client // topic -> connID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *topicMessage
	mu         sync.RWMutex
	config     config.WebSocketConfig
}

type topicMessage struct {
	Topic string
	Data  []byte
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		topics:     make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *topicMessage, 256),
		config:     cfg,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldConnID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for topic, subs := range h.topics {
					delete(subs, client.ID)
					if len(subs) == 0 {
						delete(h.topics, topic)
					}
				}
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldConnID, client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			if subs, ok := h.topics[msg.Topic]; ok {
				for _, client := range subs {
					select {
					case client.Send <- msg.Data:
					default:
						// Slow consumer, drop the connection.
						go h.removeClient(client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe adds the client to a topic's subscriber set.
func (h *Hub) Subscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[string]*Client)
	}
	h.topics[topic][client.ID] = client

	l := log.L()
	l.Debug().Str(log.FieldConnID, client.ID).Str(log.FieldTopic, topic).Msg("client subscribed")
}

// Unsubscribe removes the client from a topic's subscriber set.
func (h *Hub) Unsubscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.topics[topic]; ok {
		delete(subs, client.ID)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}

	l := log.L()
	l.Debug().Str(log.FieldConnID, client.ID).Str(log.FieldTopic, topic).Msg("client unsubscribed")
}

// PublishTopic delivers the payload to every connection currently
// subscribed to the topic. Zero subscribers is not an error. The frame is
// handed to the fan-out loop without blocking; if the fan-out queue is
// saturated the frame is dropped and logged.
func (h *Hub) PublishTopic(topic string, payload interface{}) error {
	frame, err := broker.NewFrame(topic, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- &topicMessage{Topic: topic, Data: data}:
	default:
		l := log.L()
		l.Warn().Str(log.FieldTopic, topic).Msg("broadcast queue full, dropping frame")
	}
	return nil
}

// PublishToConn delivers the payload to exactly one connection on a
// private subchannel. A connection that no longer exists is silently
// skipped; a full send buffer drops the frame rather than blocking.
func (h *Hub) PublishToConn(connID, subchannel string, payload interface{}) error {
	frame, err := broker.NewFrame(broker.QueueTopic(subchannel), payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	// Lookup and send under the read lock: unregister closes Send under
	// the write lock, so the close cannot land between them.
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return nil
	}

	select {
	case client.Send <- data:
	default:
		l := log.L()
		l.Warn().Str(log.FieldConnID, connID).Str(log.FieldTopic, frame.Topic).Msg("send buffer full, dropping frame")
	}
	return nil
}

// SubscriberCount reports how many connections are subscribed to a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}
