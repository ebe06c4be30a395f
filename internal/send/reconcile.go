// Package send implements the delivery pipeline: header reconciliation
// against the vocabulary snapshots, row normalization into wire messages,
// bounded batching, sequential delivery, and status reconciliation.
package send

import (
	"strings"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/sheet"
	"github.com/sells-group/contact-cli/internal/vocab"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

// HeaderPlan is the result of reconciling spreadsheet headers against the
// current vocabulary snapshots. It must be rebuilt before every send, since
// a vocabulary refresh between import and send changes the mapping.
type HeaderPlan struct {
	// Keys holds, per column, the wildcard id when the header matches a
	// known wildcard, else the raw header string.
	Keys []string
	// Wildcards holds, per column, the matched wildcard entry or nil.
	Wildcards []*gateway.Entry
	// StageCol is the first column whose header is literally "stage" or
	// matches a stage name; -1 when absent.
	StageCol int
	// PhoneCol is the first phone-like column; -1 when absent.
	PhoneCol int
}

// ReconcileHeaders maps headers to payload keys and locates the phone and
// stage columns. Matching is case- and diacritic-insensitive throughout.
func ReconcileHeaders(headers []string, wildcards, stages *vocab.Index) HeaderPlan {
	plan := HeaderPlan{
		Keys:      make([]string, len(headers)),
		Wildcards: make([]*gateway.Entry, len(headers)),
		StageCol:  sheet.StageColumn(headers, stages),
		PhoneCol:  sheet.PhoneColumn(headers),
	}
	for i, h := range headers {
		if e, ok := wildcards.Entry(h); ok {
			plan.Keys[i] = e.ResolvedID()
			entry := e
			plan.Wildcards[i] = &entry
		} else {
			plan.Keys[i] = h
		}
	}
	return plan
}

// BuildMessages normalizes the selected rows into outbound messages. Missing
// phone or stage columns degrade gracefully (empty phone, nil stage); the
// strict checks already happened at import.
func BuildMessages(sel []model.Selection, plan HeaderPlan, stages *vocab.Index) []gateway.Message {
	msgs := make([]gateway.Message, 0, len(sel))
	for _, s := range sel {
		msg := gateway.Message{ID: s.MessageID}

		if plan.PhoneCol >= 0 && plan.PhoneCol < len(s.Values) {
			msg.Phone = strings.TrimSpace(s.Values[plan.PhoneCol])
		}

		if plan.StageCol >= 0 && plan.StageCol < len(s.Values) {
			raw := strings.TrimSpace(s.Values[plan.StageCol])
			if raw != "" {
				if id, ok := stages.ID(raw); ok {
					msg.Stage = &id
				}
			}
		}

		for i, entry := range plan.Wildcards {
			if entry == nil || i >= len(s.Values) {
				continue
			}
			value := strings.TrimSpace(s.Values[i])
			if value == "" {
				continue
			}
			msg.Wildcards = append(msg.Wildcards, gateway.WildcardValue{
				ID:    entry.ResolvedID(),
				Name:  entry.Name,
				Type:  entry.Type,
				Value: value,
			})
		}

		msgs = append(msgs, msg)
	}
	return msgs
}
