package room

import (
	"context"
	"errors"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

// ErrNotFound is returned when a room does not exist.
var ErrNotFound = errors.New("room not found")

// Directory is the authoritative set of valid rooms.
type Directory interface {
	Exists(ctx context.Context, roomID string) (bool, error)
	Get(ctx context.Context, roomID string) (domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	Create(ctx context.Context, id, name, description string) (domain.Room, error)
	Close() error
}

// DefaultRooms are seeded into an empty directory at startup.
var DefaultRooms = []domain.Room{
	{ID: "general", Name: "# general", Description: "General discussion for everyone"},
	{ID: "tech", Name: "# tech", Description: "Technology, code, and geek talk"},
	{ID: "random", Name: "# random", Description: "Anything goes, memes, off-topic, fun"},
	{ID: "announcements", Name: "announcements", Description: "Important updates and news"},
}

// Seed inserts the default rooms when the directory is empty.
func Seed(ctx context.Context, dir Directory) error {
	rooms, err := dir.List(ctx)
	if err != nil {
		return err
	}
	if len(rooms) > 0 {
		return nil
	}
	for _, r := range DefaultRooms {
		if _, err := dir.Create(ctx, r.ID, r.Name, r.Description); err != nil {
			return err
		}
	}
	return nil
}
