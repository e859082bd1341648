package openrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/config"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/generation"
)

// recordingHandler captures slog records for assertions.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

// intAttr returns the named int64 attribute from the first record with the
// given message.
func (h *recordingHandler) intAttr(message, key string) (int64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, r := range h.records {
		if r.Message != message {
			continue
		}
		var value int64
		var found bool
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				value = a.Value.Int64()
				found = true
				return false
			}
			return true
		})
		return value, found
	}
	return 0, false
}

func newTestGenerator(t *testing.T, cfg config.LLMConfig) *Generator {
	t.Helper()
	gen, err := NewGenerator(cfg, nil)
	require.NoError(t, err)
	return gen
}

func generationRequest(text string) generation.Request {
	return generation.Request{
		UserID: uuid.New(),
		Text:   text,
	}
}

func TestNewGenerator_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.LLMConfig)
	}{
		{"missing api key", func(c *config.LLMConfig) { c.OpenRouterAPIKey = "" }},
		{"missing default model", func(c *config.LLMConfig) { c.DefaultModel = "" }},
		{"non-positive timeout", func(c *config.LLMConfig) { c.TimeoutSeconds = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testLLMConfig("https://openrouter.ai/api/v1")
			tc.mutate(&cfg)

			_, err := NewGenerator(cfg, nil)
			assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		})
	}
}

func TestGenerator_GenerateSuccess(t *testing.T) {
	content := `{"flashcards":[` +
		`{"front":"Capital of France?","back":"Paris"},` +
		`{"front":"Capital of Spain?","back":"Madrid"}]}`

	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(chatReply(content)))
	}))
	defer server.Close()

	gen := newTestGenerator(t, testLLMConfig(server.URL))

	text := strings.Repeat("a", 2000)
	result, err := gen.Generate(context.Background(), generationRequest(text))
	require.NoError(t, err)

	require.Len(t, result.Suggestions, 2)
	assert.Equal(t, "Capital of France?", result.Suggestions[0].Front)
	assert.Equal(t, "Paris", result.Suggestions[0].Back)
	assert.Equal(t, "openai/gpt-4o-mini", result.ModelUsed)
	assert.Equal(t, (len(text)+len(content))/4, result.TokensUsed)

	// The upstream request carries the sampling and output contract.
	assert.InDelta(t, 0.7, gotBody["temperature"], 0.001)
	assert.NotNil(t, gotBody["response_format"])
	messages, ok := gotBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
}

func TestGenerator_LogsTextLengthInCharacters(t *testing.T) {
	server := serveJSON(t, http.StatusOK,
		chatReply(`{"flashcards":[{"front":"Q","back":"A"}]}`))
	defer server.Close()

	handler := &recordingHandler{}
	gen, err := NewGenerator(testLLMConfig(server.URL), slog.New(handler))
	require.NoError(t, err)

	// 2000 characters, 4000 bytes.
	_, err = gen.Generate(context.Background(), generationRequest(strings.Repeat("ł", 2000)))
	require.NoError(t, err)

	length, ok := handler.intAttr("generation started", "text_length")
	require.True(t, ok)
	assert.Equal(t, int64(2000), length)
}

func TestGenerator_GenerateUsesRequestedModel(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(
			chatReply(`{"flashcards":[{"front":"Q","back":"A"}]}`)))
	}))
	defer server.Close()

	gen := newTestGenerator(t, testLLMConfig(server.URL))

	req := generationRequest(strings.Repeat("a", 2000))
	req.Model = "anthropic/claude-3.5-sonnet"
	result, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "anthropic/claude-3.5-sonnet", gotBody["model"])
	assert.Equal(t, "anthropic/claude-3.5-sonnet", result.ModelUsed)
}

func TestGenerator_GenerateUnavailable(t *testing.T) {
	server := serveJSON(t, http.StatusServiceUnavailable, map[string]interface{}{
		"error": map[string]interface{}{"message": "overloaded"},
	})
	defer server.Close()

	gen := newTestGenerator(t, testLLMConfig(server.URL))

	_, err := gen.Generate(context.Background(), generationRequest(strings.Repeat("a", 2000)))
	assert.ErrorIs(t, err, generation.ErrServiceUnavailable)
}

func TestGenerator_GenerateUpstreamFailure(t *testing.T) {
	server := serveJSON(t, http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{"message": "boom"},
	})
	defer server.Close()

	gen := newTestGenerator(t, testLLMConfig(server.URL))

	_, err := gen.Generate(context.Background(), generationRequest(strings.Repeat("a", 2000)))
	assert.ErrorIs(t, err, generation.ErrGateway)
}

func TestGenerator_GenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	cfg := testLLMConfig(server.URL)
	cfg.TimeoutSeconds = 1
	gen := newTestGenerator(t, cfg)

	start := time.Now()
	_, err := gen.Generate(context.Background(), generationRequest(strings.Repeat("a", 2000)))
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, generation.ErrTimeout)
	assert.Less(t, elapsed, 3*time.Second, "call must give up at the configured deadline")
}

func TestGenerator_GenerateNoSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty array", `{"flashcards":[]}`},
		{"missing key", `{"cards":[{"front":"Q","back":"A"}]}`},
		{"all candidates invalid", `{"flashcards":[{"front":"","back":"A"},{"front":"Q"}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := serveJSON(t, http.StatusOK, chatReply(tc.content))
			defer server.Close()

			gen := newTestGenerator(t, testLLMConfig(server.URL))

			_, err := gen.Generate(context.Background(), generationRequest(strings.Repeat("a", 2000)))
			assert.ErrorIs(t, err, generation.ErrNoSuggestions)
		})
	}
}

func TestGenerator_GenerateNonJSONReply(t *testing.T) {
	server := serveJSON(t, http.StatusOK, chatReply("I'd be happy to help with flashcards!"))
	defer server.Close()

	gen := newTestGenerator(t, testLLMConfig(server.URL))

	_, err := gen.Generate(context.Background(), generationRequest(strings.Repeat("a", 2000)))
	assert.ErrorIs(t, err, generation.ErrGateway)
}
