package send

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/pkg/gateway"
)

func makeMessages(n int) []gateway.Message {
	msgs := make([]gateway.Message, n)
	for i := range msgs {
		msgs[i] = gateway.Message{ID: i}
	}
	return msgs
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		size      int
		wantSizes []int
	}{
		{"empty", 0, 50, nil},
		{"single short batch", 10, 50, []int{10}},
		{"exact multiple", 100, 50, []int{50, 50}},
		{"remainder", 120, 50, []int{50, 50, 20}},
		{"size one", 3, 1, []int{1, 1, 1}},
		{"zero size falls back to default", 60, 0, []int{50, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := Partition(makeMessages(tt.n), tt.size)
			require.Len(t, batches, len(tt.wantSizes))
			for i, b := range batches {
				assert.Len(t, b, tt.wantSizes[i])
			}
		})
	}
}

func TestPartitionPreservesOrder(t *testing.T) {
	batches := Partition(makeMessages(120), 50)
	next := 0
	for _, b := range batches {
		for _, m := range b {
			assert.Equal(t, next, m.ID)
			next++
		}
	}
	assert.Equal(t, 120, next)
}
