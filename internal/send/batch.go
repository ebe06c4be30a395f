package send

import "github.com/sells-group/contact-cli/pkg/gateway"

// DefaultBatchSize bounds one delivery request.
const DefaultBatchSize = 50

// Partition slices msgs into batches of at most size messages, preserving
// order; the last batch may be short. A non-positive size falls back to
// DefaultBatchSize.
func Partition(msgs []gateway.Message, size int) [][]gateway.Message {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(msgs) == 0 {
		return nil
	}
	batches := make([][]gateway.Message, 0, (len(msgs)+size-1)/size)
	for start := 0; start < len(msgs); start += size {
		end := start + size
		if end > len(msgs) {
			end = len(msgs)
		}
		batches = append(batches, msgs[start:end])
	}
	return batches
}
