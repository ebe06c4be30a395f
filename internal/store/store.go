// Package store persists the imported table and the fetched vocabulary
// snapshots as opaque JSON blobs. Reads are tolerant: a corrupt blob is
// logged and replaced by the empty default rather than failing the caller.
package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/vocab"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

// Store defines local persistence for row state and vocabulary snapshots.
type Store interface {
	LoadTable(ctx context.Context) (*model.Table, error)
	SaveTable(ctx context.Context, tbl *model.Table) error

	LoadVocab(ctx context.Context, kind vocab.Kind) ([]gateway.Entry, error)
	SaveVocab(ctx context.Context, kind vocab.Kind, entries []gateway.Entry) error

	Migrate(ctx context.Context) error
	Close() error
}

// decodeTable parses a persisted table blob. Corrupt JSON degrades to the
// empty table. Rows written by earlier versions may lack an id or carry an
// unknown status; both are repaired here so every loaded row is usable.
func decodeTable(raw []byte) *model.Table {
	empty := &model.Table{}
	if len(raw) == 0 {
		return empty
	}

	var tbl model.Table
	if err := json.Unmarshal(raw, &tbl); err != nil {
		zap.L().Warn("store: corrupt table blob, starting empty", zap.Error(err))
		return empty
	}

	for i := range tbl.Rows {
		if tbl.Rows[i].ID == "" {
			tbl.Rows[i].ID = uuid.New().String()
		}
		if !tbl.Rows[i].Status.Valid() {
			tbl.Rows[i].Status = model.RowStatusPending
		}
	}
	return &tbl
}

// decodeVocab parses a persisted vocabulary blob, degrading to empty on
// corrupt JSON.
func decodeVocab(kind vocab.Kind, raw []byte) []gateway.Entry {
	if len(raw) == 0 {
		return nil
	}
	var entries []gateway.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		zap.L().Warn("store: corrupt vocabulary blob, treating as empty",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil
	}
	return entries
}
