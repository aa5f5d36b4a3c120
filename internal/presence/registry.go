package presence

import (
	"sort"
	"sync"
	"time"

	"github.com/shivrajcodez/Real-Time-Chat-App/pkg/log"
)

// Session binds a connection identifier to a chat identity. Sessions are
// owned by the Registry; callers only ever see value copies.
type Session struct {
	ConnID      string
	Username    string
	RoomID      string
	ConnectedAt time.Time
}

// Registry is the in-memory store of live sessions, keyed by connection
// identifier. It is safe for concurrent use; linearizable per key, not
// across calls.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Session),
	}
}

// Add inserts or overwrites the session for a connection. It never fails:
// a second Add for the same connection replaces the previous session.
func (r *Registry) Add(connID, username, roomID string) {
	r.mu.Lock()
	r.sessions[connID] = Session{
		ConnID:      connID,
		Username:    username,
		RoomID:      roomID,
		ConnectedAt: time.Now(),
	}
	r.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldConnID, connID).Str(log.FieldUsername, username).Str(log.FieldRoomID, roomID).Msg("session added")
}

// Remove deletes the session for a connection. Removing an unknown
// connection is a no-op so duplicate or out-of-order disconnect signals
// are tolerated.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	sess, ok := r.sessions[connID]
	delete(r.sessions, connID)
	r.mu.Unlock()

	if ok {
		l := log.L()
		l.Debug().Str(log.FieldConnID, connID).Str(log.FieldUsername, sess.Username).Msg("session removed")
	}
}

// UsersInRoom returns the distinct usernames currently in a room, sorted
// ascending. Callers depend on the deterministic ordering.
func (r *Registry) UsersInRoom(roomID string) []string {
	r.mu.RLock()
	seen := make(map[string]struct{})
	for _, sess := range r.sessions {
		if sess.RoomID == roomID {
			seen[sess.Username] = struct{}{}
		}
	}
	r.mu.RUnlock()

	users := make([]string, 0, len(seen))
	for u := range seen {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// OnlineCountInRoom returns the distinct username count for a room.
func (r *Registry) OnlineCountInRoom(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, sess := range r.sessions {
		if sess.RoomID == roomID {
			seen[sess.Username] = struct{}{}
		}
	}
	return len(seen)
}

// TotalOnlineCount returns the distinct username count across all rooms.
func (r *Registry) TotalOnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, sess := range r.sessions {
		seen[sess.Username] = struct{}{}
	}
	return len(seen)
}

// Lookup returns a copy of the session for a connection, if present.
func (r *Registry) Lookup(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[connID]
	return sess, ok
}
