package kafka

import (
	"context"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

// MessageProducer mirrors persisted chat messages onto a Kafka topic for
// downstream consumers (analytics, search indexing). Production is
// fire-and-forget; delivery reports are logged, never surfaced.
type MessageProducer interface {
	Produce(ctx context.Context, msg domain.ChatMessage) error
	Close() error
}
