package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/api/shared"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/generation"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/platform/logger"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/redact"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/store"
)

// Bounds on the trimmed input text, in characters.
const (
	MinGenerationTextLength = 1000
	MaxGenerationTextLength = 10000
)

// unavailableRetryAfterSeconds is the retry hint returned with 503 responses.
const unavailableRetryAfterSeconds = 60

// GenerationHandler handles flashcard suggestion generation requests.
type GenerationHandler struct {
	generator generation.Generator
	logStore  store.GenerationLogStore
	logger    *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler with the given
// dependencies. If logger is nil, a default logger will be used.
func NewGenerationHandler(
	generator generation.Generator,
	logStore store.GenerationLogStore,
	logger *slog.Logger,
) *GenerationHandler {
	if generator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("generator cannot be nil")
	}
	if logStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &GenerationHandler{
		generator: generator,
		logStore:  logStore,
		logger:    logger.With(slog.String("component", "generation_handler")),
	}
}

// Generate handles POST /api/generations requests. It validates the input
// text bounds, invokes the generator, records a generation log entry, and
// maps generator errors to transport responses. The generator is never
// invoked for out-of-bounds input.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
			shared.WithDetails([]shared.FieldError{
				{Field: "body", Message: "must be a valid JSON object"},
			}))
		return
	}

	trimmed := strings.TrimSpace(req.Text)
	textLength := utf8.RuneCountInString(trimmed)

	if details := validateGenerationText(textLength); details != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
			shared.WithDetails(details))
		return
	}

	log.Info("generation requested",
		slog.String("user_id", userID.String()),
		slog.Int("text_length", textLength))

	genLog, err := domain.NewGenerationLog(userID, resolveLoggedModel(req.Model), textLength)
	if err != nil {
		log.Error("failed to create generation log entry",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	result, genErr := h.generator.Generate(r.Context(), generation.Request{
		Text:   trimmed,
		Model:  req.Model,
		UserID: userID,
	})

	if genErr != nil {
		genLog.MarkFailed(generation.ErrorCode(genErr))
		h.recordLog(r, genLog)
		h.respondGenerationError(w, r, genErr)
		return
	}

	genLog.Model = result.ModelUsed
	genLog.MarkSucceeded(len(result.Suggestions), result.TokensUsed)
	h.recordLog(r, genLog)

	suggestions := make([]SuggestionResponse, len(result.Suggestions))
	for i, s := range result.Suggestions {
		suggestions[i] = SuggestionResponse{Front: s.Front, Back: s.Back}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		GenerationID: genLog.ID,
		Suggestions:  suggestions,
		ModelUsed:    result.ModelUsed,
		TokensUsed:   result.TokensUsed,
	})
}

// validateGenerationText checks the trimmed text length against the bounds.
// Returns nil when the text is acceptable.
func validateGenerationText(textLength int) []shared.FieldError {
	switch {
	case textLength == 0:
		return []shared.FieldError{{
			Field:   "text",
			Message: "is required",
		}}
	case textLength < MinGenerationTextLength:
		return []shared.FieldError{{
			Field: "text",
			Message: fmt.Sprintf("must be at least %d characters after trimming, got %d",
				MinGenerationTextLength, textLength),
		}}
	case textLength > MaxGenerationTextLength:
		return []shared.FieldError{{
			Field: "text",
			Message: fmt.Sprintf("must be at most %d characters after trimming, got %d",
				MaxGenerationTextLength, textLength),
		}}
	default:
		return nil
	}
}

// respondGenerationError maps the generator's error categories to transport
// responses. Only classified, user-safe messages reach the caller.
func (h *GenerationHandler) respondGenerationError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
) {
	switch {
	case errors.Is(err, generation.ErrTimeout):
		shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway,
			"Upstream timeout", err,
			shared.WithMessage("The AI service did not respond in time. Please try again."))

	case errors.Is(err, generation.ErrServiceUnavailable):
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
			"Service unavailable", err,
			shared.WithMessage("The AI service is temporarily unavailable. Please retry later."),
			shared.WithRetryAfter(unavailableRetryAfterSeconds))

	case errors.Is(err, generation.ErrNoSuggestions):
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"No suggestions generated", err,
			shared.WithMessage("The AI service did not produce any usable suggestions from the provided text."))

	case errors.Is(err, generation.ErrGateway):
		shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway,
			"Upstream error", err,
			shared.WithMessage("The AI service returned an error. Please try again."))

	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Internal server error", err,
			shared.WithMessage("An unexpected error occurred."))
	}
}

// recordLog persists the generation log entry. Recording failures are logged
// and swallowed; they never fail the user request.
func (h *GenerationHandler) recordLog(r *http.Request, genLog *domain.GenerationLog) {
	if err := h.logStore.Create(r.Context(), genLog); err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Error("failed to record generation log",
			slog.String("error", redact.Error(err)),
			slog.String("generation_id", genLog.ID.String()))
	}
}

// resolveLoggedModel returns the model identifier recorded before the
// generator has resolved its default. The handler does not know the default;
// the log entry is updated with the resolved model on success.
func resolveLoggedModel(model string) string {
	if model == "" {
		return "default"
	}
	return model
}
