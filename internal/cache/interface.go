package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

// ErrCacheMiss is returned when a key is not in the cache.
var ErrCacheMiss = errors.New("cache miss")

// MessageCache caches recent-history reads. A miss is ErrCacheMiss; any
// other error means the cache itself failed and callers fall through to
// the store.
type MessageCache interface {
	Get(ctx context.Context, key string) ([]domain.ChatMessage, error)
	Set(ctx context.Context, key string, messages []domain.ChatMessage, ttl time.Duration) error
	Close() error
}

// BuildKey derives the cache key for a bounded history read.
func BuildKey(roomID string, limit int) string {
	return fmt.Sprintf("history:room:%s:limit:%d", roomID, limit)
}
