package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

const messagesSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	content   TEXT NOT NULL,
	sender    TEXT NOT NULL,
	room_id   TEXT NOT NULL,
	type      TEXT NOT NULL,
	timestamp TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_room_time ON messages (room_id, timestamp);
`

// OpenSQLite opens (and creates if needed) the SQLite database backing the
// message store and the room directory.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// modernc.org/sqlite serialises writes itself; a single connection
	// avoids SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return db, nil
}

// SQLiteStore persists chat messages in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(messagesSchema); err != nil {
		return nil, fmt.Errorf("failed to create messages schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	stored := msg
	stored.Timestamp = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (content, sender, room_id, type, timestamp) VALUES (?, ?, ?, ?, ?)`,
		stored.Content, stored.Sender, stored.RoomID, string(stored.Type), stored.Timestamp,
	)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("failed to insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("failed to read message id: %w", err)
	}
	stored.ID = id
	return stored, nil
}

func (s *SQLiteStore) Recent(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, sender, room_id, type, timestamp
		 FROM messages WHERE room_id = ?
		 ORDER BY timestamp DESC, id DESC LIMIT ?`,
		roomID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		var typ string
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.Sender, &msg.RoomID, &typ, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Type = domain.MessageType(typ)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	// The query walks newest-first; history is delivered oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
