package sheet

import (
	"fmt"
	"strings"

	"github.com/sells-group/contact-cli/internal/normalize"
	"github.com/sells-group/contact-cli/internal/vocab"
)

// ValidationError rejects a whole import. The table is never partially
// mutated on validation failure.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "sheet: " + e.Reason
}

// phoneHeaders are the accepted folded forms of the phone column.
var phoneHeaders = map[string]bool{
	"phone":    true,
	"telefono": true,
}

func isPhoneHeader(h string) bool {
	return phoneHeaders[normalize.Fold(h)]
}

func isStageHeader(h string, stages *vocab.Index) bool {
	folded := normalize.Fold(h)
	return folded == "stage" || stages.Has(h)
}

// ValidateHeaders enforces the import contract: a phone-like column, a
// stage-like column, and every remaining header must match a known wildcard.
func ValidateHeaders(headers []string, wildcards, stages *vocab.Index) error {
	hasPhone := false
	hasStage := false
	var invalid []string

	for _, h := range headers {
		switch {
		case isPhoneHeader(h):
			hasPhone = true
		case isStageHeader(h, stages):
			hasStage = true
		case !wildcards.Has(h):
			invalid = append(invalid, h)
		}
	}

	if !hasPhone {
		return &ValidationError{Reason: `file must contain a "phone" (or "teléfono") column`}
	}
	if !hasStage {
		return &ValidationError{Reason: `file must contain a "stage" column`}
	}
	if len(invalid) > 0 {
		return &ValidationError{
			Reason: fmt.Sprintf("headers do not match any known wildcard: %s", strings.Join(invalid, ", ")),
		}
	}
	return nil
}

// StageColumn returns the index of the first header that is literally "stage"
// or matches a known stage name, or -1.
func StageColumn(headers []string, stages *vocab.Index) int {
	for i, h := range headers {
		if isStageHeader(h, stages) {
			return i
		}
	}
	return -1
}

// PhoneColumn returns the index of the first phone-like header, or -1.
func PhoneColumn(headers []string) int {
	for i, h := range headers {
		if isPhoneHeader(h) {
			return i
		}
	}
	return -1
}

// ValidateStageValues checks every non-empty cell of the stage column against
// the stage vocabulary. Reported row numbers are 1-based spreadsheet rows
// (+2: spreadsheets count from 1 and row 1 is the header).
func ValidateStageValues(stageCol int, rows [][]string, stages *vocab.Index) error {
	if stages.Len() == 0 {
		return &ValidationError{Reason: "no stages available; refresh stages first"}
	}

	type badRow struct {
		number int
		value  string
	}
	var bad []badRow
	for i, row := range rows {
		if stageCol >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[stageCol])
		if value == "" {
			continue
		}
		if !stages.Has(value) {
			bad = append(bad, badRow{number: i + 2, value: value})
		}
	}

	if len(bad) == 0 {
		return nil
	}

	details := make([]string, 0, 5)
	for _, b := range bad {
		if len(details) == 5 {
			break
		}
		details = append(details, fmt.Sprintf("row %d: %q", b.number, b.value))
	}
	more := ""
	if len(bad) > 5 {
		more = fmt.Sprintf(" (and %d more)", len(bad)-5)
	}
	return &ValidationError{
		Reason: fmt.Sprintf("invalid stage values%s: %s", more, strings.Join(details, ", ")),
	}
}

// Validate runs the full import-time validation over decoded contents.
func Validate(c *Contents, wildcards, stages *vocab.Index) error {
	if err := ValidateHeaders(c.Headers, wildcards, stages); err != nil {
		return err
	}
	if col := StageColumn(c.Headers, stages); col != -1 {
		if err := ValidateStageValues(col, c.Rows, stages); err != nil {
			return err
		}
	}
	return nil
}
