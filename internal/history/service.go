package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/cache"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/storage"
	"github.com/shivrajcodez/Real-Time-Chat-App/pkg/log"
)

// Service serves bounded recent-history reads. Concurrent identical reads
// are collapsed through singleflight, and results are optionally cached
// with a short TTL. The cache may be nil.
type Service struct {
	store    storage.MessageStore
	cache    cache.MessageCache
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewService(store storage.MessageStore, msgCache cache.MessageCache, cacheTTL time.Duration) *Service {
	return &Service{
		store:    store,
		cache:    msgCache,
		cacheTTL: cacheTTL,
	}
}

// Recent returns the most recent limit messages for a room in ascending
// timestamp order.
func (s *Service) Recent(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error) {
	if s.cache == nil {
		return s.store.Recent(ctx, roomID, limit)
	}

	key := cache.BuildKey(roomID, limit)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.fetchWithCache(ctx, roomID, limit, key)
	})
	if err != nil {
		return nil, err
	}

	messages, ok := result.([]domain.ChatMessage)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}
	return messages, nil
}

func (s *Service) fetchWithCache(ctx context.Context, roomID string, limit int, key string) ([]domain.ChatMessage, error) {
	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("cache get error")
	}

	messages, err := s.store.Recent(ctx, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent messages: %w", err)
	}

	// Store in cache async to avoid blocking the read path.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Set(cacheCtx, key, messages, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Msg("cache set error")
		}
	}()

	return messages, nil
}
