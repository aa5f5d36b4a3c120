package broker

import (
	"encoding/json"
	"time"
)

// Frame is the envelope delivered to subscribed connections. Private
// deliveries reuse the same envelope with a queue.* topic.
type Frame struct {
	Topic     string          `json:"topic"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewFrame wraps a payload for delivery on a topic.
func NewFrame(topic string, payload interface{}) (*Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Frame{
		Topic:     topic,
		Payload:   data,
		Timestamp: time.Now(),
	}, nil
}

// UnmarshalPayload unmarshals the frame payload into the given struct.
func (f *Frame) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(f.Payload, v)
}

// Broker is the topic-addressed fan-out the coordinator publishes through.
//
// PublishTopic delivers the payload to every connection currently
// subscribed to the topic. Zero subscribers is not an error, and
// connections that subscribe after the call returns get nothing.
//
// PublishToConn is best-effort point-to-point delivery on a connection's
// private subchannel. It must not block, and a connection that no longer
// exists is silently skipped. Errors are marshalling failures only.
type Broker interface {
	PublishTopic(topic string, payload interface{}) error
	PublishToConn(connID, subchannel string, payload interface{}) error
}
