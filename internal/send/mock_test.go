package send

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/table"
	"github.com/sells-group/contact-cli/internal/vocab"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

// memStore is an in-memory store.Store for pipeline tests.
type memStore struct {
	tbl    *model.Table
	vocabs map[vocab.Kind][]gateway.Entry
}

func newMemStore(tbl *model.Table) *memStore {
	return &memStore{tbl: tbl, vocabs: map[vocab.Kind][]gateway.Entry{}}
}

func (s *memStore) LoadTable(context.Context) (*model.Table, error) { return s.tbl, nil }

func (s *memStore) SaveTable(_ context.Context, tbl *model.Table) error {
	s.tbl = tbl
	return nil
}

func (s *memStore) LoadVocab(_ context.Context, kind vocab.Kind) ([]gateway.Entry, error) {
	return s.vocabs[kind], nil
}

func (s *memStore) SaveVocab(_ context.Context, kind vocab.Kind, entries []gateway.Entry) error {
	s.vocabs[kind] = entries
	return nil
}

func (s *memStore) Migrate(context.Context) error { return nil }
func (s *memStore) Close() error                  { return nil }

func loadManager(t *testing.T, st *memStore) *table.Manager {
	t.Helper()
	m, err := table.Load(context.Background(), st)
	require.NoError(t, err)
	return m
}
