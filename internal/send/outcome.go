package send

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/table"
)

// ApplyOutcome maps delivered message ids back to their rows and updates row
// statuses: successful ids become sent, failed ids become error. Ids that do
// not map to a selected row are ignored; for rows deleted while the send was
// in flight the status write is a no-op. Returns how many outcome ids
// resolved to selected rows, per result set.
func ApplyOutcome(ctx context.Context, tbl *table.Manager, sel []model.Selection, outcome model.DeliveryOutcome) (sent, failed int, err error) {
	rowFor := make(map[int]string, len(sel))
	for _, s := range sel {
		rowFor[s.MessageID] = s.RowID
	}

	for _, id := range outcome.Successful {
		rowID, ok := rowFor[id]
		if !ok {
			continue
		}
		if err := tbl.SetStatusByRowID(ctx, rowID, model.RowStatusSent); err != nil {
			return sent, failed, eris.Wrap(err, "send: mark sent")
		}
		sent++
	}
	for _, id := range outcome.Failed {
		rowID, ok := rowFor[id]
		if !ok {
			continue
		}
		if err := tbl.SetStatusByRowID(ctx, rowID, model.RowStatusError); err != nil {
			return sent, failed, eris.Wrap(err, "send: mark error")
		}
		failed++
	}
	return sent, failed, nil
}
