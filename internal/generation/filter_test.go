package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCandidates_KeepsValidCandidates(t *testing.T) {
	raw := []any{
		map[string]any{"front": "Capital of France?", "back": "Paris"},
		map[string]any{"front": "Capital of Spain?", "back": "Madrid"},
	}

	got := FilterCandidates(raw)

	require.Len(t, got, 2)
	assert.Equal(t, Suggestion{Front: "Capital of France?", Back: "Paris"}, got[0])
	assert.Equal(t, Suggestion{Front: "Capital of Spain?", Back: "Madrid"}, got[1])
}

func TestFilterCandidates_TrimsFields(t *testing.T) {
	raw := []any{
		map[string]any{"front": "  What is Go?  ", "back": "\tA programming language\n"},
	}

	got := FilterCandidates(raw)

	require.Len(t, got, 1)
	assert.Equal(t, "What is Go?", got[0].Front)
	assert.Equal(t, "A programming language", got[0].Back)
}

func TestFilterCandidates_DedupIsCaseInsensitiveFirstWins(t *testing.T) {
	raw := []any{
		map[string]any{"front": "Q", "back": "A1"},
		map[string]any{"front": "q", "back": "A2"},
	}

	got := FilterCandidates(raw)

	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{Front: "Q", Back: "A1"}, got[0])
}

func TestFilterCandidates_DedupAgainstIdenticalFronts(t *testing.T) {
	// Two candidates asking the same question keep only the first answer.
	raw := []any{
		map[string]any{"front": "Capital of France?", "back": "Paris"},
		map[string]any{"front": "Capital of France?", "back": "Paris again"},
	}

	got := FilterCandidates(raw)

	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{Front: "Capital of France?", Back: "Paris"}, got[0])
}

func TestFilterCandidates_DropsInvalidCandidates(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"nil input", nil},
		{"not an array", map[string]any{"front": "Q", "back": "A"}},
		{"string input", "flashcards"},
		{"nil entry", []any{nil}},
		{"primitive entry", []any{42}},
		{"missing back", []any{map[string]any{"front": "Q"}}},
		{"missing front", []any{map[string]any{"back": "A"}}},
		{"non-string front", []any{map[string]any{"front": 1, "back": "A"}}},
		{"non-string back", []any{map[string]any{"front": "Q", "back": true}}},
		{"empty front after trim", []any{map[string]any{"front": "   ", "back": "A"}}},
		{"front too long", []any{map[string]any{
			"front": strings.Repeat("x", 1001),
			"back":  "A",
		}}},
		{"back too long", []any{map[string]any{
			"front": "Q",
			"back":  strings.Repeat("x", 1001),
		}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterCandidates(tc.raw)
			assert.Empty(t, got)
			assert.NotNil(t, got, "result must be an empty slice, never nil")
		})
	}
}

func TestFilterCandidates_BoundaryLengthsAreKept(t *testing.T) {
	raw := []any{
		map[string]any{"front": strings.Repeat("a", 1000), "back": "A"},
		map[string]any{"front": "Q", "back": strings.Repeat("b", 1000)},
	}

	got := FilterCandidates(raw)

	require.Len(t, got, 2)
}

func TestFilterCandidates_BoundsAreCharactersNotBytes(t *testing.T) {
	// 500 katakana characters occupy 1500 bytes; the candidate is in bounds.
	raw := []any{
		map[string]any{"front": strings.Repeat("ア", 500), "back": "答え"},
		map[string]any{"front": strings.Repeat("ア", 1000), "back": "答え"},
	}

	got := FilterCandidates(raw)

	require.Len(t, got, 2)
	assert.Equal(t, strings.Repeat("ア", 500), got[0].Front)

	over := []any{
		map[string]any{"front": strings.Repeat("ア", 1001), "back": "答え"},
	}
	assert.Empty(t, FilterCandidates(over))
}

func TestFilterCandidates_PreservesOrderAroundDroppedEntries(t *testing.T) {
	raw := []any{
		map[string]any{"front": "first", "back": "1"},
		map[string]any{"front": "", "back": "dropped"},
		map[string]any{"front": "second", "back": "2"},
		"garbage",
		map[string]any{"front": "third", "back": "3"},
	}

	got := FilterCandidates(raw)

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Front)
	assert.Equal(t, "second", got[1].Front)
	assert.Equal(t, "third", got[2].Front)
}

func TestFilterCandidates_IsDeterministic(t *testing.T) {
	raw := []any{
		map[string]any{"front": "A", "back": "1"},
		map[string]any{"front": "B", "back": "2"},
		map[string]any{"front": "a", "back": "3"},
		map[string]any{"front": "C", "back": "4"},
	}

	first := FilterCandidates(raw)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FilterCandidates(raw))
	}
}
