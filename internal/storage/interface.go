package storage

import (
	"context"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

// MessageStore is the durable side of the persistence gateway. Append
// assigns the message ID and the durable timestamp itself; the copy the
// coordinator broadcast may therefore differ from the stored record.
type MessageStore interface {
	// Append persists a message and returns the stored record.
	Append(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error)

	// Recent returns the most recent limit messages for a room in
	// ascending timestamp order.
	Recent(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error)

	Close() error
}

// Mirror receives a copy of every persisted message, e.g. a Kafka
// firehose. Implementations must be fire-and-forget friendly.
type Mirror interface {
	Produce(ctx context.Context, msg domain.ChatMessage) error
}

// Writer is the dispatch side of the persistence gateway. Enqueue must
// never block the caller; it reports whether the task was accepted.
type Writer interface {
	Enqueue(msg domain.ChatMessage) bool
}
