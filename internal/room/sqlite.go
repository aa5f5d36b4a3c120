package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
)

const roomsSchema = `
CREATE TABLE IF NOT EXISTS rooms (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);
`

// SQLiteDirectory stores rooms in the shared SQLite database.
type SQLiteDirectory struct {
	db *sql.DB
}

func NewSQLiteDirectory(db *sql.DB) (*SQLiteDirectory, error) {
	if _, err := db.Exec(roomsSchema); err != nil {
		return nil, fmt.Errorf("failed to create rooms schema: %w", err)
	}
	return &SQLiteDirectory{db: db}, nil
}

func (d *SQLiteDirectory) Exists(ctx context.Context, roomID string) (bool, error) {
	var one int
	err := d.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ?`, roomID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check room: %w", err)
	}
	return true, nil
}

func (d *SQLiteDirectory) Get(ctx context.Context, roomID string) (domain.Room, error) {
	var r domain.Room
	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM rooms WHERE id = ?`, roomID,
	).Scan(&r.ID, &r.Name, &r.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, ErrNotFound
	}
	if err != nil {
		return domain.Room{}, fmt.Errorf("failed to get room: %w", err)
	}
	return r, nil
}

func (d *SQLiteDirectory) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name, description FROM rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var r domain.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Description); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (d *SQLiteDirectory) Create(ctx context.Context, id, name, description string) (domain.Room, error) {
	r := domain.Room{ID: Slugify(id), Name: name, Description: description}
	_, err := d.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO rooms (id, name, description) VALUES (?, ?, ?)`,
		r.ID, r.Name, r.Description,
	)
	if err != nil {
		return domain.Room{}, fmt.Errorf("failed to create room: %w", err)
	}
	return r, nil
}

func (d *SQLiteDirectory) Close() error {
	// The *sql.DB is shared with the message store; the owner closes it.
	return nil
}
