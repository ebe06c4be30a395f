// Package normalize holds the canonical string normalization used for all
// vocabulary matching: headers, stage values, and vocabulary names must be
// folded through the same function or lookups silently diverge.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold trims, lowercases, and strips diacritics ("Teléfono" -> "telefono").
func Fold(s string) string {
	// The chain carries per-call buffers, so it cannot be package state.
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the input.
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// FoldAll applies Fold to every element, returning a new slice.
func FoldAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Fold(s)
	}
	return out
}
