package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"vibetube/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals that no row exists for the requested video id.
var ErrNotFound = errors.New("video not found")

const schema = `
CREATE TABLE IF NOT EXISTS videos (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	channel      TEXT NOT NULL DEFAULT '',
	url          TEXT NOT NULL DEFAULT '',
	published_at TIMESTAMPTZ,
	shared_at    TIMESTAMPTZ NOT NULL,
	vibe         TEXT NOT NULL DEFAULT '',
	reason       TEXT NOT NULL DEFAULT '',
	source       TEXT NOT NULL DEFAULT '',
	metadata     JSONB NOT NULL DEFAULT '{}'::jsonb
)`

const upsertSQL = `
INSERT INTO videos (id, title, description, channel, url, published_at, shared_at, vibe, reason, source, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
	title        = EXCLUDED.title,
	description  = EXCLUDED.description,
	channel      = EXCLUDED.channel,
	url          = EXCLUDED.url,
	published_at = EXCLUDED.published_at,
	vibe         = CASE WHEN videos.vibe = '' THEN EXCLUDED.vibe ELSE videos.vibe END,
	reason       = CASE WHEN videos.vibe = '' THEN EXCLUDED.reason ELSE videos.reason END,
	metadata     = EXCLUDED.metadata`

const selectColumns = `id, title, description, channel, url, published_at, shared_at, vibe, reason, source, metadata`

// VideoStore persists video records in Postgres, keyed by video id.
// Writes are upserts: a conflicting id merges into the existing row
// instead of duplicating. shared_at and source are set once at insert
// and never overwritten by later upserts; an established vibe survives
// every upsert and only changes through UpdateVibe.
type VideoStore struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*VideoStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return &VideoStore{pool: pool}, nil
}

func (s *VideoStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the videos table if it does not exist yet.
func (s *VideoStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// LoadAll returns every stored video record.
func (s *VideoStore) LoadAll(ctx context.Context) ([]*models.VideoRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectColumns+` FROM videos`)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var records []*models.VideoRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read videos: %w", err)
	}

	return records, nil
}

// GetByID returns one record or ErrNotFound.
func (s *VideoStore) GetByID(ctx context.Context, id string) (*models.VideoRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM videos WHERE id = $1`, id)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return record, nil
}

// UpsertBatch writes all records in one round trip, keyed by id.
func (s *VideoStore) UpsertBatch(ctx context.Context, records []*models.VideoRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		metadata, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", r.ID, err)
		}

		batch.Queue(upsertSQL,
			r.ID, r.Title, r.Description, r.Channel, r.URL,
			r.PublishedAt, r.SharedAt, r.Vibe, r.Reason, r.Source, metadata)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert videos: %w", err)
		}
	}

	return nil
}

// UpdateVibe changes only the classification of one record. This is the
// manual-override path; ingestion never rewrites an existing vibe.
func (s *VideoStore) UpdateVibe(ctx context.Context, id, vibe, reason string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE videos SET vibe = $2, reason = $3 WHERE id = $1`, id, vibe, reason)
	if err != nil {
		return fmt.Errorf("failed to update vibe for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one record.
func (s *VideoStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (*models.VideoRecord, error) {
	var r models.VideoRecord
	var metadata []byte

	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Channel, &r.URL,
		&r.PublishedAt, &r.SharedAt, &r.Vibe, &r.Reason, &r.Source, &metadata)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &r.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", r.ID, err)
		}
	}

	return &r, nil
}
