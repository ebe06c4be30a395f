package gateway

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Entry is one vocabulary item (a wildcard or a stage). The server has shipped
// two wire shapes over time: a bare name string, and an object with "id" or
// legacy "_id" plus "name" and an optional "type". Both decode into the same
// canonical form.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// ResolvedID returns the identifier to send for this entry, falling back to
// the name when the server supplied none.
func (e Entry) ResolvedID() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Name
}

type entryObject struct {
	ID       string `json:"id"`
	LegacyID string `json:"_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
}

// UnmarshalJSON accepts either a JSON string or an entry object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*e = Entry{Name: name}
		return nil
	}

	var obj entryObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return eris.Wrap(err, "gateway: decode vocabulary entry")
	}
	id := obj.ID
	if id == "" {
		id = obj.LegacyID
	}
	*e = Entry{ID: id, Name: obj.Name, Type: obj.Type}
	return nil
}
