package send

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

// ErrNotConfigured is returned before any network call when the server URL
// or API key is missing.
var ErrNotConfigured = eris.New("send: server URL and API key must be configured")

// ErrSendInProgress is returned when a send is invoked while another one is
// still running. Delivery is strictly serialized because row state is
// mutated in place.
var ErrSendInProgress = eris.New("send: another send is already in progress")

// Progress describes the state of a running send. One event is emitted
// before each batch and one final event after the loop, so the operator
// always sees 100% even when every batch failed.
type Progress struct {
	Batch        int
	TotalBatches int
	Processed    int
	Total        int
}

// ProgressFunc receives progress events synchronously, in order.
type ProgressFunc func(Progress)

// DriverOptions tunes a Driver.
type DriverOptions struct {
	BatchSize  int
	RatePerSec float64 // batches per second; 0 disables pacing
	Progress   ProgressFunc
}

// Driver sends batches sequentially and aggregates per-message outcomes.
// Batch failures are isolated: a failed batch marks only its own message
// ids failed and the remaining batches are still attempted.
type Driver struct {
	gw        gateway.Client
	batchSize int
	limiter   *rate.Limiter
	progress  ProgressFunc
	sending   atomic.Bool
}

// NewDriver creates a Driver delivering through gw. A nil gw means the
// server is unconfigured; Send then fails fast.
func NewDriver(gw gateway.Client, opts DriverOptions) *Driver {
	d := &Driver{
		gw:        gw,
		batchSize: opts.BatchSize,
		progress:  opts.Progress,
	}
	if d.batchSize <= 0 {
		d.batchSize = DefaultBatchSize
	}
	if opts.RatePerSec > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}
	return d
}

// Send delivers msgs in sequential batches. It returns an outcome covering
// every submitted message id exactly once; a batch-level failure converts
// all of that batch's ids to failed. The returned error is non-nil only for
// preconditions (configuration, overlapping invocation), never for batch
// failures.
func (d *Driver) Send(ctx context.Context, msgs []gateway.Message) (model.DeliveryOutcome, error) {
	var outcome model.DeliveryOutcome

	if d.gw == nil {
		return outcome, ErrNotConfigured
	}
	if !d.sending.CompareAndSwap(false, true) {
		return outcome, ErrSendInProgress
	}
	defer d.sending.Store(false)

	batches := Partition(msgs, d.batchSize)
	total := len(msgs)
	processed := 0
	log := zap.L()

	for i, batch := range batches {
		d.emit(Progress{Batch: i + 1, TotalBatches: len(batches), Processed: processed, Total: total})

		result, err := d.deliverBatch(ctx, batch)
		if err != nil {
			log.Warn("send: batch failed",
				zap.Int("batch", i+1),
				zap.Int("total_batches", len(batches)),
				zap.Int("messages", len(batch)),
				zap.Error(err),
			)
			for _, m := range batch {
				outcome.Failed = append(outcome.Failed, m.ID)
			}
		} else {
			outcome.Successful = append(outcome.Successful, result.Successful...)
			outcome.Failed = append(outcome.Failed, result.Failed...)
			sweepUnattributed(&outcome, batch, log)
		}

		processed += len(batch)
	}

	d.emit(Progress{Batch: len(batches), TotalBatches: len(batches), Processed: total, Total: total})
	return outcome, nil
}

func (d *Driver) deliverBatch(ctx context.Context, batch []gateway.Message) (*gateway.BatchResult, error) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "send: rate limiter")
		}
	}
	return d.gw.SendMessages(ctx, batch)
}

// sweepUnattributed marks any id of this batch that the server mentioned in
// neither result set as failed, preserving the outcome invariant against a
// misbehaving server.
func sweepUnattributed(outcome *model.DeliveryOutcome, batch []gateway.Message, log *zap.Logger) {
	seen := make(map[int]bool, len(outcome.Successful)+len(outcome.Failed))
	for _, id := range outcome.Successful {
		seen[id] = true
	}
	for _, id := range outcome.Failed {
		seen[id] = true
	}
	for _, m := range batch {
		if !seen[m.ID] {
			log.Warn("send: server omitted message from result, marking failed", zap.Int("id", m.ID))
			outcome.Failed = append(outcome.Failed, m.ID)
		}
	}
}

func (d *Driver) emit(p Progress) {
	if d.progress != nil {
		d.progress(p)
	}
}
