// Package history persists per-platform publish outcomes to Postgres.
// Recording is optional: without a configured database the pipeline runs
// exactly the same, it just keeps no record.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// Entry is one platform attempt of one pipeline run.
type Entry struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Topic        string     `db:"topic" json:"topic"`
	Platform     string     `db:"platform" json:"platform"`
	Outcome      string     `db:"outcome" json:"outcome"`
	Detail       string     `db:"detail" json:"detail,omitempty"`
	PostID       string     `db:"post_id" json:"post_id,omitempty"`
	ScheduledFor *time.Time `db:"scheduled_for" json:"scheduled_for,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Repository stores and lists publish history entries.
type Repository struct {
	db *sqlx.DB
}

// Connect opens the Postgres database and verifies the connection.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to history database: %w", err)
	}
	return db, nil
}

// NewRepository creates a Repository backed by the given database.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// The publish_history schema is created by migrations outside this service:
//
//	CREATE TABLE publish_history (
//	    id            uuid PRIMARY KEY,
//	    topic         text NOT NULL,
//	    platform      text NOT NULL,
//	    outcome       text NOT NULL,
//	    detail        text NOT NULL DEFAULT '',
//	    post_id       text NOT NULL DEFAULT '',
//	    scheduled_for timestamptz,
//	    created_at    timestamptz NOT NULL DEFAULT now()
//	);
const insertQuery = `
	INSERT INTO publish_history (id, topic, platform, outcome, detail, post_id, scheduled_for, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Insert stores one entry, assigning it an id and timestamp.
func (r *Repository) Insert(ctx context.Context, entry Entry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, insertQuery,
		entry.ID, entry.Topic, entry.Platform, entry.Outcome,
		entry.Detail, entry.PostID, entry.ScheduledFor, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert publish history: %w", err)
	}
	return nil
}

// Recent lists the most recent entries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	entries := []Entry{}
	query := `
		SELECT id, topic, platform, outcome, detail, post_id, scheduled_for, created_at
		FROM publish_history
		ORDER BY created_at DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("list publish history: %w", err)
	}
	return entries, nil
}
