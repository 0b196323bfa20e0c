package ingest

import (
	"strings"

	"pedidos/internal"
)

// FromText wraps one free-text order description as a single submission.
// Blank input produces nothing: an empty description is the recovered
// malformed-input case, not an error.
func FromText(text string) []internal.Submission {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []internal.Submission{{
		RowNo:       1,
		Source:      internal.SourceText,
		Description: text,
	}}
}
