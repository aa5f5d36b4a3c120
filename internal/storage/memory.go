package storage

import (
	"context"
	"sync"
	"time"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

// MemoryStore keeps messages in process memory. Used by tests and as a
// storage fallback when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rooms  map[string][]domain.ChatMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		rooms:  make(map[string][]domain.ChatMessage),
	}
}

func (s *MemoryStore) Append(_ context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := msg
	stored.ID = s.nextID
	stored.Timestamp = time.Now().UTC()
	s.nextID++
	s.rooms[msg.RoomID] = append(s.rooms[msg.RoomID], stored)
	return stored, nil
}

func (s *MemoryStore) Recent(_ context.Context, roomID string, limit int) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.rooms[roomID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
