package postgresCollection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	repo "boletimCampo/internal/repository"
)

const schema = `CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// DB is the subset of *pgxpool.Pool the storage needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Storage keeps every collection as a single serialized row.
type Storage struct {
	db DB
}

func New(db DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create collections table: %w", err)
	}

	return nil
}

func (s *Storage) Get(ctx context.Context, collection string) ([]repo.Record, error) {
	const op = "postgresCollection.Get"

	if !repo.KnownCollection(collection) {
		return nil, fmt.Errorf("%s: %w: %q", op, repo.ErrUnknownCollection, collection)
	}

	var payload []byte

	err := s.db.QueryRow(ctx, `SELECT payload FROM collections WHERE key = $1`, collection).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []repo.Record{}, nil
		}
		return nil, fmt.Errorf("%s: %w: %w", op, repo.ErrStorageUnavailable, err)
	}

	records := []repo.Record{}
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("%s: %w: corrupt %s collection: %w", op, repo.ErrStorageUnavailable, collection, err)
	}

	return records, nil
}

func (s *Storage) Set(ctx context.Context, collection string, records []repo.Record) error {
	const op = "postgresCollection.Set"

	if !repo.KnownCollection(collection) {
		return fmt.Errorf("%s: %w: %q", op, repo.ErrUnknownCollection, collection)
	}

	if records == nil {
		records = []repo.Record{}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", op, collection, err)
	}

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO collections(key, payload, updated_at) VALUES($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		collection,
		payload,
	)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, repo.ErrStorageUnavailable, err)
	}

	return nil
}
