package room

import (
	"context"
	"sort"
	"sync"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

// MemoryDirectory keeps the room catalog in process memory.
type MemoryDirectory struct {
	mu    sync.RWMutex
	rooms map[string]domain.Room
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		rooms: make(map[string]domain.Room),
	}
}

func (d *MemoryDirectory) Exists(_ context.Context, roomID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[roomID]
	return ok, nil
}

func (d *MemoryDirectory) Get(_ context.Context, roomID string) (domain.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[roomID]
	if !ok {
		return domain.Room{}, ErrNotFound
	}
	return r, nil
}

func (d *MemoryDirectory) List(_ context.Context) ([]domain.Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rooms := make([]domain.Room, 0, len(d.rooms))
	for _, r := range d.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (d *MemoryDirectory) Create(_ context.Context, id, name, description string) (domain.Room, error) {
	r := domain.Room{ID: Slugify(id), Name: name, Description: description}
	d.mu.Lock()
	d.rooms[r.ID] = r
	d.mu.Unlock()
	return r, nil
}

func (d *MemoryDirectory) Close() error {
	return nil
}
