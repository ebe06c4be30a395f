package send

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/store"
	"github.com/sells-group/contact-cli/internal/table"
	"github.com/sells-group/contact-cli/internal/vocab"
)

// Summary is the operator-facing result of one send.
type Summary struct {
	Attempted int
	Sent      int
	Failed    int
}

// Run executes one full send: select pending/error rows, rebuild the
// vocabulary indices from the stored snapshots, reconcile headers, normalize
// rows, deliver in batches, and reconcile statuses. An empty selection
// returns a zero Summary without touching the network.
func Run(ctx context.Context, st store.Store, tbl *table.Manager, driver *Driver) (Summary, error) {
	sel := tbl.PendingSelection()
	if len(sel) == 0 {
		return Summary{}, nil
	}

	// Indices are rebuilt on every send so a vocabulary refresh between
	// import and send is always honored.
	wEntries, err := st.LoadVocab(ctx, vocab.KindWildcards)
	if err != nil {
		return Summary{}, eris.Wrap(err, "send: load wildcards")
	}
	sEntries, err := st.LoadVocab(ctx, vocab.KindStages)
	if err != nil {
		return Summary{}, eris.Wrap(err, "send: load stages")
	}
	wildcards := vocab.NewIndex(wEntries)
	stages := vocab.NewIndex(sEntries)

	plan := ReconcileHeaders(tbl.Table().Headers, wildcards, stages)
	msgs := BuildMessages(sel, plan, stages)

	zap.L().Info("send: starting delivery",
		zap.Int("rows", len(sel)),
		zap.Int("wildcards", wildcards.Len()),
		zap.Int("stages", stages.Len()),
	)

	outcome, err := driver.Send(ctx, msgs)
	if err != nil {
		return Summary{Attempted: len(sel)}, err
	}

	sent, failed, err := ApplyOutcome(ctx, tbl, sel, outcome)
	if err != nil {
		return Summary{Attempted: len(sel), Sent: sent, Failed: failed}, err
	}

	zap.L().Info("send: delivery complete",
		zap.Int("attempted", len(sel)),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)
	return Summary{Attempted: len(sel), Sent: sent, Failed: failed}, nil
}
