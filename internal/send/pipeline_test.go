package send

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/vocab"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

func TestRunEndToEnd(t *testing.T) {
	st := newMemStore(&model.Table{
		Headers: []string{"phone", "stage", "city"},
		Rows: []model.Row{
			{ID: "a", Values: []string{"555-1234", "New", "Springfield"}, Status: model.RowStatusPending},
			{ID: "b", Values: []string{"555-5678", "New", ""}, Status: model.RowStatusSent},
			{ID: "c", Values: []string{"555-9999", "Contacted", "Shelbyville"}, Status: model.RowStatusError},
		},
	})
	st.vocabs[vocab.KindWildcards] = []gateway.Entry{{ID: "w1", Name: "city"}}
	st.vocabs[vocab.KindStages] = []gateway.Entry{{ID: "s1", Name: "New"}, {ID: "s2", Name: "Contacted"}}
	m := loadManager(t, st)

	gw := &fakeGateway{results: []func([]gateway.Message) (*gateway.BatchResult, error){
		func(batch []gateway.Message) (*gateway.BatchResult, error) {
			require.Len(t, batch, 2)
			// Row a at position 0, row c at position 2; b was already sent.
			assert.Equal(t, 0, batch[0].ID)
			require.NotNil(t, batch[0].Stage)
			assert.Equal(t, "s1", *batch[0].Stage)
			assert.Equal(t, 2, batch[1].ID)
			require.NotNil(t, batch[1].Stage)
			assert.Equal(t, "s2", *batch[1].Stage)
			return &gateway.BatchResult{Successful: []int{0}, Failed: []int{2}}, nil
		},
	}}
	driver := NewDriver(gw, DriverOptions{BatchSize: 50})

	summary, err := Run(context.Background(), st, m, driver)
	require.NoError(t, err)
	assert.Equal(t, Summary{Attempted: 2, Sent: 1, Failed: 1}, summary)

	rows := m.Table().Rows
	assert.Equal(t, model.RowStatusSent, rows[0].Status)
	assert.Equal(t, model.RowStatusSent, rows[1].Status)
	assert.Equal(t, model.RowStatusError, rows[2].Status)
}

func TestRunNothingPending(t *testing.T) {
	st := newMemStore(&model.Table{
		Headers: []string{"phone"},
		Rows:    []model.Row{{ID: "a", Values: []string{"555"}, Status: model.RowStatusSent}},
	})
	m := loadManager(t, st)

	gw := &fakeGateway{}
	summary, err := Run(context.Background(), st, m, NewDriver(gw, DriverOptions{}))
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
	assert.Empty(t, gw.calls, "no network activity for an empty selection")
}

func TestRunNotConfigured(t *testing.T) {
	st := newMemStore(&model.Table{
		Rows: []model.Row{{ID: "a", Values: []string{"555"}, Status: model.RowStatusPending}},
	})
	m := loadManager(t, st)

	_, err := Run(context.Background(), st, m, NewDriver(nil, DriverOptions{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)

	// No partial state change: the row keeps its prior status.
	assert.Equal(t, model.RowStatusPending, m.Table().Rows[0].Status)
}

func TestRunRetryReselectsErrorRows(t *testing.T) {
	st := newMemStore(&model.Table{
		Headers: []string{"phone", "stage"},
		Rows: []model.Row{
			{ID: "a", Values: []string{"555", "New"}, Status: model.RowStatusPending},
			{ID: "b", Values: []string{"556", "New"}, Status: model.RowStatusPending},
		},
	})
	st.vocabs[vocab.KindStages] = []gateway.Entry{{ID: "s1", Name: "New"}}
	m := loadManager(t, st)

	// First send: row b fails.
	gw := &fakeGateway{results: []func([]gateway.Message) (*gateway.BatchResult, error){
		func(batch []gateway.Message) (*gateway.BatchResult, error) {
			return &gateway.BatchResult{Successful: []int{0}, Failed: []int{1}}, nil
		},
	}}
	summary, err := Run(context.Background(), st, m, NewDriver(gw, DriverOptions{}))
	require.NoError(t, err)
	assert.Equal(t, Summary{Attempted: 2, Sent: 1, Failed: 1}, summary)

	// Manual re-trigger targets only the error row.
	gw2 := &fakeGateway{}
	summary, err = Run(context.Background(), st, m, NewDriver(gw2, DriverOptions{}))
	require.NoError(t, err)
	assert.Equal(t, Summary{Attempted: 1, Sent: 1, Failed: 0}, summary)
	require.Len(t, gw2.calls, 1)
	require.Len(t, gw2.calls[0], 1)
	assert.Equal(t, 1, gw2.calls[0][0].ID, "error row re-selected under its current position")

	assert.Equal(t, model.RowStatusSent, m.Table().Rows[1].Status)
}
