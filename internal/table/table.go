// Package table owns the imported row state. All mutation goes through the
// Manager, and every mutation writes the full table back to the store, so an
// interrupted send leaves rows at their last attributed status.
package table

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/normalize"
	"github.com/sells-group/contact-cli/internal/sheet"
	"github.com/sells-group/contact-cli/internal/store"
)

// Manager wraps the persisted table with its mutation operations.
type Manager struct {
	store store.Store
	tbl   *model.Table
}

// Load reads the current table from the store.
func Load(ctx context.Context, st store.Store) (*Manager, error) {
	tbl, err := st.LoadTable(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "table: load")
	}
	return &Manager{store: st, tbl: tbl}, nil
}

// Table returns the current state. Callers must not mutate it directly.
func (m *Manager) Table() *model.Table {
	return m.tbl
}

// ImportSheet merges validated spreadsheet contents into the table and
// persists the result. Importing into a non-empty table unions the headers
// case-insensitively (existing order kept, new headers appended), pads
// existing rows to the combined width, and remaps the new rows into the
// combined column order. New rows start pending. Returns the number of rows
// added.
func (m *Manager) ImportSheet(ctx context.Context, c *sheet.Contents) (int, error) {
	combined := m.tbl.Headers
	if len(combined) == 0 {
		combined = append([]string(nil), c.Headers...)
	} else {
		seen := make(map[string]bool, len(combined))
		for _, h := range combined {
			seen[normalize.Fold(h)] = true
		}
		combined = append([]string(nil), combined...)
		for _, h := range c.Headers {
			folded := normalize.Fold(h)
			if !seen[folded] {
				combined = append(combined, h)
				seen[folded] = true
			}
		}
	}

	// Pad existing rows to the combined width.
	width := len(combined)
	for i := range m.tbl.Rows {
		for len(m.tbl.Rows[i].Values) < width {
			m.tbl.Rows[i].Values = append(m.tbl.Rows[i].Values, "")
		}
	}

	// Remap new rows into combined column order by folded header name.
	colFor := make(map[string]int, width)
	for i, h := range combined {
		if _, ok := colFor[normalize.Fold(h)]; !ok {
			colFor[normalize.Fold(h)] = i
		}
	}
	for _, src := range c.Rows {
		values := make([]string, width)
		for i, cell := range src {
			if i >= len(c.Headers) {
				break
			}
			if target, ok := colFor[normalize.Fold(c.Headers[i])]; ok {
				values[target] = cell
			}
		}
		m.tbl.Rows = append(m.tbl.Rows, model.Row{
			ID:     uuid.New().String(),
			Values: values,
			Status: model.RowStatusPending,
		})
	}

	m.tbl.Headers = combined
	if err := m.save(ctx); err != nil {
		return 0, err
	}
	return len(c.Rows), nil
}

// PendingSelection captures the pending-or-error rows with their positional
// ids at this moment. The returned slice is what a send operates on; later
// table mutations do not affect it.
func (m *Manager) PendingSelection() []model.Selection {
	var sel []model.Selection
	for i, row := range m.tbl.Rows {
		if row.Status == model.RowStatusPending || row.Status == model.RowStatusError {
			sel = append(sel, model.Selection{
				MessageID: i,
				RowID:     row.ID,
				Values:    row.Values,
			})
		}
	}
	return sel
}

// SetStatusByRowID updates one row's status and persists. Unknown ids are
// ignored: the row was deleted while its message was in flight.
func (m *Manager) SetStatusByRowID(ctx context.Context, rowID string, status model.RowStatus) error {
	for i := range m.tbl.Rows {
		if m.tbl.Rows[i].ID == rowID {
			m.tbl.Rows[i].Status = status
			return m.save(ctx)
		}
	}
	return nil
}

// DeleteRow removes the row at position index. Subsequent rows shift down;
// their stable ids are unaffected.
func (m *Manager) DeleteRow(ctx context.Context, index int) error {
	if index < 0 || index >= len(m.tbl.Rows) {
		return eris.Errorf("table: row index %d out of range", index)
	}
	m.tbl.Rows = append(m.tbl.Rows[:index], m.tbl.Rows[index+1:]...)
	return m.save(ctx)
}

// ClearSent drops every row whose status is sent.
func (m *Manager) ClearSent(ctx context.Context) error {
	kept := m.tbl.Rows[:0]
	for _, row := range m.tbl.Rows {
		if row.Status != model.RowStatusSent {
			kept = append(kept, row)
		}
	}
	m.tbl.Rows = kept
	return m.save(ctx)
}

// ClearAll drops the headers and every row.
func (m *Manager) ClearAll(ctx context.Context) error {
	m.tbl.Headers = nil
	m.tbl.Rows = nil
	return m.save(ctx)
}

func (m *Manager) save(ctx context.Context) error {
	return eris.Wrap(m.store.SaveTable(ctx, m.tbl), "table: save")
}
