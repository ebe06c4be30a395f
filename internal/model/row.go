package model

// RowStatus tracks the delivery lifecycle of an imported row.
type RowStatus string

const (
	RowStatusPending RowStatus = "pending"
	RowStatusSent    RowStatus = "sent"
	RowStatusError   RowStatus = "error"
)

// Valid reports whether s is a known status; unknown values read back from
// storage degrade to pending.
func (s RowStatus) Valid() bool {
	switch s {
	case RowStatusPending, RowStatusSent, RowStatusError:
		return true
	}
	return false
}

// Row is one imported contact row. ID is assigned at import and never changes,
// so delivery outcomes can be attributed even after positional shifts caused
// by row deletion.
type Row struct {
	ID     string    `json:"id"`
	Values []string  `json:"values"`
	Status RowStatus `json:"status"`
}

// Table is the full imported data set: one header row plus contact rows in
// import order.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Selection captures one pending-or-error row at the moment a send begins.
// MessageID is the row's position at capture time and doubles as the wire id;
// RowID survives concurrent deletions.
type Selection struct {
	MessageID int
	RowID     string
	Values    []string
}
