package generation

import (
	"strings"
	"unicode/utf8"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
)

// FilterCandidates converts the raw `flashcards` value from an upstream
// reply into validated suggestions. The input is untrusted: entries may be
// missing fields, carry wrong types, or exceed length bounds, and the value
// itself may not be an array at all. Invalid entries are dropped silently.
//
// Suggestions are deduplicated by lower-cased trimmed front text; the first
// occurrence wins regardless of back content. Output preserves first-seen
// input order. The result may be empty; interpreting that as an error is
// the caller's responsibility. FilterCandidates never fails.
func FilterCandidates(raw any) []Suggestion {
	items, ok := raw.([]any)
	if !ok {
		return []Suggestion{}
	}

	suggestions := make([]Suggestion, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		front, ok := candidateField(obj["front"])
		if !ok {
			continue
		}

		back, ok := candidateField(obj["back"])
		if !ok {
			continue
		}

		key := strings.ToLower(front)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		suggestions = append(suggestions, Suggestion{Front: front, Back: back})
	}

	return suggestions
}

// candidateField validates a single untyped candidate field: it must be a
// string whose trimmed length is in [1, MaxFieldLength] characters, not
// bytes. Returns the trimmed value.
func candidateField(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}

	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > domain.MaxFieldLength {
		return "", false
	}

	return s, true
}
