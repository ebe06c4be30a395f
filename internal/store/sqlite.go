package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/vocab"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS table_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS vocab_snapshots (
	kind       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadTable(ctx context.Context) (*model.Table, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM table_state WHERE id = 1`).Scan(&raw)
	if eris.Is(err, sql.ErrNoRows) {
		return &model.Table{}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load table")
	}
	return decodeTable(raw), nil
}

func (s *SQLiteStore) SaveTable(ctx context.Context, tbl *model.Table) error {
	raw, err := json.Marshal(tbl)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal table")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO table_state (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(raw), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save table")
}

func (s *SQLiteStore) LoadVocab(ctx context.Context, kind vocab.Kind) ([]gateway.Entry, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM vocab_snapshots WHERE kind = ?`, string(kind),
	).Scan(&raw)
	if eris.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load vocab %s", kind)
	}
	return decodeVocab(kind, raw), nil
}

func (s *SQLiteStore) SaveVocab(ctx context.Context, kind vocab.Kind, entries []gateway.Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal vocab %s", kind)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO vocab_snapshots (kind, data, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(kind) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at`,
		string(kind), string(raw), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save vocab %s", kind)
}
