// Package vocab builds lookup tables over server-defined vocabularies. An
// index is rebuilt from the stored snapshot on every send so that a refresh
// between import and send is always honored.
package vocab

import (
	"github.com/sells-group/contact-cli/internal/normalize"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

// Kind names a vocabulary for storage and logging.
type Kind string

const (
	KindWildcards Kind = "wildcards"
	KindStages    Kind = "stages"
)

// Index maps folded vocabulary names to their ids and full entries.
type Index struct {
	nameToID    map[string]string
	nameToEntry map[string]gateway.Entry
}

// NewIndex builds an Index from entries. Entries without a derivable name are
// skipped; on a folded-name collision the last entry wins. Building is pure:
// the same input always yields the same mappings.
func NewIndex(entries []gateway.Entry) *Index {
	idx := &Index{
		nameToID:    make(map[string]string, len(entries)),
		nameToEntry: make(map[string]gateway.Entry, len(entries)),
	}
	for _, e := range entries {
		name := normalize.Fold(e.Name)
		if name == "" {
			continue
		}
		idx.nameToID[name] = e.ResolvedID()
		idx.nameToEntry[name] = e
	}
	return idx
}

// ID returns the id for a raw name, matching case- and diacritic-insensitively.
func (i *Index) ID(name string) (string, bool) {
	id, ok := i.nameToID[normalize.Fold(name)]
	return id, ok
}

// Entry returns the full entry for a raw name.
func (i *Index) Entry(name string) (gateway.Entry, bool) {
	e, ok := i.nameToEntry[normalize.Fold(name)]
	return e, ok
}

// Has reports whether a raw name is in the vocabulary.
func (i *Index) Has(name string) bool {
	_, ok := i.nameToID[normalize.Fold(name)]
	return ok
}

// Len returns the number of distinct folded names.
func (i *Index) Len() int {
	return len(i.nameToID)
}
