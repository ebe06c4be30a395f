package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/vocab"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS table_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS vocab_snapshots (
	kind       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) LoadTable(ctx context.Context) (*model.Table, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM table_state WHERE id = 1`).Scan(&raw)
	if eris.Is(err, pgx.ErrNoRows) {
		return &model.Table{}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load table")
	}
	return decodeTable(raw), nil
}

func (s *PostgresStore) SaveTable(ctx context.Context, tbl *model.Table) error {
	raw, err := json.Marshal(tbl)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal table")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO table_state (id, data, updated_at) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		raw, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: save table")
}

func (s *PostgresStore) LoadVocab(ctx context.Context, kind vocab.Kind) ([]gateway.Entry, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM vocab_snapshots WHERE kind = $1`, string(kind),
	).Scan(&raw)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: load vocab %s", kind)
	}
	return decodeVocab(kind, raw), nil
}

func (s *PostgresStore) SaveVocab(ctx context.Context, kind vocab.Kind, entries []gateway.Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal vocab %s", kind)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO vocab_snapshots (kind, data, fetched_at) VALUES ($1, $2, $3)
		 ON CONFLICT (kind) DO UPDATE SET data = EXCLUDED.data, fetched_at = EXCLUDED.fetched_at`,
		string(kind), raw, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: save vocab %s", kind)
}
