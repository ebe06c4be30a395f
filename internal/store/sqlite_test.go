package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/vocab"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteTableRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	// Empty database yields an empty table, not an error.
	tbl, err := s.LoadTable(ctx)
	require.NoError(t, err)
	assert.Empty(t, tbl.Headers)
	assert.Empty(t, tbl.Rows)

	tbl = &model.Table{
		Headers: []string{"phone", "stage", "city"},
		Rows: []model.Row{
			{ID: "r1", Values: []string{"555-1234", "New", "Springfield"}, Status: model.RowStatusPending},
			{ID: "r2", Values: []string{"555-5678", "Contacted", ""}, Status: model.RowStatusSent},
		},
	}
	require.NoError(t, s.SaveTable(ctx, tbl))

	got, err := s.LoadTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, tbl, got)

	// Save is an upsert: a second write replaces the first.
	tbl.Rows = tbl.Rows[:1]
	require.NoError(t, s.SaveTable(ctx, tbl))
	got, err = s.LoadTable(ctx)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
}

func TestSQLiteTableRepairsLegacyRows(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	// Blob written by an earlier version: no row ids, unknown status.
	raw := `{"headers":["phone"],"rows":[{"values":["555"],"status":"weird"},{"values":["556"]}]}`
	_, err := s.db.ExecContext(ctx, `INSERT INTO table_state (id, data) VALUES (1, ?)`, raw)
	require.NoError(t, err)

	got, err := s.LoadTable(ctx)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	for _, r := range got.Rows {
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, model.RowStatusPending, r.Status)
	}
}

func TestSQLiteTableCorruptBlob(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `INSERT INTO table_state (id, data) VALUES (1, ?)`, "{not json")
	require.NoError(t, err)

	got, err := s.LoadTable(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Rows)
}

func TestSQLiteVocabRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	got, err := s.LoadVocab(ctx, vocab.KindWildcards)
	require.NoError(t, err)
	assert.Nil(t, got)

	entries := []gateway.Entry{
		{ID: "w1", Name: "city", Type: "text"},
		{Name: "company"},
	}
	require.NoError(t, s.SaveVocab(ctx, vocab.KindWildcards, entries))

	got, err = s.LoadVocab(ctx, vocab.KindWildcards)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	// Kinds are independent.
	got, err = s.LoadVocab(ctx, vocab.KindStages)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteVocabCorruptBlob(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vocab_snapshots (kind, data) VALUES (?, ?)`, "stages", "[broken")
	require.NoError(t, err)

	got, err := s.LoadVocab(ctx, vocab.KindStages)
	require.NoError(t, err)
	assert.Nil(t, got)
}
