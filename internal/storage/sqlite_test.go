package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreAppendAssignsIDAndTimestamp(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	stored, err := store.Append(ctx, domain.ChatMessage{
		Content: "hello", Sender: "ada", RoomID: "general", Type: domain.MessageChat,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if stored.ID == 0 {
		t.Fatalf("expected assigned id, got %+v", stored)
	}
	if stored.Timestamp.IsZero() {
		t.Fatalf("expected store-assigned timestamp, got %+v", stored)
	}

	next, err := store.Append(ctx, domain.ChatMessage{
		Content: "again", Sender: "ada", RoomID: "general", Type: domain.MessageChat,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if next.ID <= stored.ID {
		t.Fatalf("expected increasing ids, got %d then %d", stored.ID, next.ID)
	}
}

func TestSQLiteStoreRecentOrdersAscendingWithLimit(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three", "four"} {
		if _, err := store.Append(ctx, domain.ChatMessage{
			Content: content, Sender: "ada", RoomID: "general", Type: domain.MessageChat,
		}); err != nil {
			t.Fatalf("append %q: %v", content, err)
		}
	}

	got, err := store.Recent(ctx, "general", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	want := []string{"two", "three", "four"}
	for i, content := range want {
		if got[i].Content != content {
			t.Fatalf("position %d: expected %q, got %q (%+v)", i, content, got[i].Content, got)
		}
	}
	if got[0].ID >= got[1].ID || got[1].ID >= got[2].ID {
		t.Fatalf("ids not ascending: %+v", got)
	}
}

func TestSQLiteStoreRoomsAreIsolated(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, domain.ChatMessage{Content: "general msg", Sender: "ada", RoomID: "general", Type: domain.MessageChat}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := store.Append(ctx, domain.ChatMessage{Content: "tech msg", Sender: "bo", RoomID: "tech", Type: domain.MessageChat}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := store.Recent(ctx, "tech", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].Content != "tech msg" {
		t.Fatalf("expected only tech messages, got %+v", got)
	}

	none, err := store.Recent(ctx, "empty", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no messages for empty room, got %+v", none)
	}
}

func TestSQLiteStorePersistsSystemMessageTypes(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	notice := domain.NewSystemMessage("ada joined the room", "general", domain.MessageJoin)
	if _, err := store.Append(ctx, notice); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := store.Recent(ctx, "general", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 || got[0].Type != domain.MessageJoin || got[0].Sender != domain.SystemSender {
		t.Fatalf("system notice round-trip failed: %+v", got)
	}
}
