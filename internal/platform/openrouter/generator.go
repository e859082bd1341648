package openrouter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/config"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/generation"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/platform/logger"
)

// systemPrompt instructs the model to emit nothing but the flashcards JSON
// object. The shape mirrors the response schema below.
const systemPrompt = `You are a flashcard author. Read the text provided by the user and produce ` +
	`between 5 and 15 flashcards covering its key facts. Each flashcard is an object with a ` +
	`"front" (question or prompt) and a "back" (answer), each between 1 and 1000 characters. ` +
	`Respond with a single JSON object of the form {"flashcards": [...]} and no prose outside the JSON.`

// generationTemperature matches the reference sampling behavior.
const generationTemperature = 0.7

// Generator implements generation.Generator against an OpenAI-compatible
// chat-completions endpoint. It owns prompt construction, the request
// timeout, and error classification for one generation call.
type Generator struct {
	client       *ChatClient
	defaultModel string
	timeout      time.Duration
	maxTokens    int64
	logger       *slog.Logger
}

// Ensure Generator implements the generation.Generator interface
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator from the LLM configuration.
// A missing API key or model is reported as generation.ErrInvalidConfig at
// construction time, never per request. If logger is nil, a default logger
// will be used.
func NewGenerator(cfg config.LLMConfig, logger *slog.Logger) (*Generator, error) {
	client, err := NewChatClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
	}

	if cfg.DefaultModel == "" {
		return nil, fmt.Errorf("%w: default model is not configured", generation.ErrInvalidConfig)
	}
	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", generation.ErrInvalidConfig)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		client:       client,
		defaultModel: cfg.DefaultModel,
		timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		maxTokens:    int64(cfg.MaxOutputTokens),
		logger:       logger.With(slog.String("component", "generator")),
	}, nil
}

// Generate implements generation.Generator. One upstream attempt, bounded by
// the configured timeout; no retries. Every failure is one of the four
// generation error categories. Logs carry the caller identity and text
// length but never the text content.
func (g *Generator) Generate(
	ctx context.Context,
	req generation.Request,
) (*generation.Result, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	// Character count, matching the boundary validation and the log entry.
	log.Info("generation started",
		slog.String("user_id", req.UserID.String()),
		slog.String("model", model),
		slog.Int("text_length", utf8.RuneCountInString(req.Text)))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	completion, err := g.client.Complete(ctx, CompletionRequest{
		Model:        model,
		SystemPrompt: systemPrompt,
		UserPrompt:   "Generate flashcards from the following text:\n\n" + req.Text,
		Temperature:  generationTemperature,
		MaxTokens:    g.maxTokens,
		SchemaName:   "flashcards",
		Schema:       flashcardsSchema(),
	})
	if err != nil {
		classified := classifyGenerationError(err)
		log.Warn("generation failed",
			slog.String("user_id", req.UserID.String()),
			slog.String("model", model),
			slog.String("error_code", generation.ErrorCode(classified)),
			slog.String("error", err.Error()))
		return nil, classified
	}

	suggestions := generation.FilterCandidates(extractCandidates(completion.Parsed))
	if len(suggestions) == 0 {
		log.Warn("generation produced no usable suggestions",
			slog.String("user_id", req.UserID.String()),
			slog.String("model", model))
		return nil, generation.ErrNoSuggestions
	}

	// Character-count heuristic, not a billing-grade token figure.
	tokensUsed := (len(req.Text) + len(completion.Raw)) / 4

	log.Info("generation succeeded",
		slog.String("user_id", req.UserID.String()),
		slog.String("model", model),
		slog.Int("suggestion_count", len(suggestions)),
		slog.Int("tokens_used", tokensUsed))

	return &generation.Result{
		Suggestions: suggestions,
		ModelUsed:   model,
		TokensUsed:  tokensUsed,
	}, nil
}

// classifyGenerationError maps client error codes to the four generator
// error categories. Anything unrecognized becomes a gateway error; no other
// error type may escape.
func classifyGenerationError(err error) error {
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return fmt.Errorf("%w: %v", generation.ErrGateway, err)
	}

	switch clientErr.Code {
	case ErrCodeTimeout:
		return fmt.Errorf("%w: %v", generation.ErrTimeout, err)
	case ErrCodeUnavailable:
		return fmt.Errorf("%w: %v", generation.ErrServiceUnavailable, err)
	default:
		// config, parse, and upstream all surface as gateway failures;
		// the distinction lives in the logs.
		return fmt.Errorf("%w: %v", generation.ErrGateway, err)
	}
}

// extractCandidates pulls the flashcards array out of the untrusted parsed
// reply. Missing or misshapen values yield nil, which the filter treats as
// an empty candidate list.
func extractCandidates(parsed interface{}) interface{} {
	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return nil
	}
	return obj["flashcards"]
}

// flashcardsSchema is the JSON schema sent with the structured-output
// request. The 5-15 length hint is advisory; the validator remains the
// authority on what is kept.
func flashcardsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"flashcards": map[string]interface{}{
				"type":     "array",
				"minItems": 5,
				"maxItems": 15,
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"front": map[string]interface{}{
							"type":      "string",
							"minLength": 1,
							"maxLength": 1000,
						},
						"back": map[string]interface{}{
							"type":      "string",
							"minLength": 1,
							"maxLength": 1000,
						},
					},
					"required":             []string{"front", "back"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"flashcards"},
		"additionalProperties": false,
	}
}
