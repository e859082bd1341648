package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/api/shared"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/platform/logger"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/redact"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/store"
)

// Pagination defaults and bounds for the flashcard list endpoint.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// FlashcardHandler handles flashcard collection HTTP requests.
type FlashcardHandler struct {
	db             *sql.DB
	flashcardStore store.FlashcardStore
	logger         *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler with the given
// dependencies. The *sql.DB is needed to run bulk creation inside a
// transaction. If logger is nil, a default logger will be used.
func NewFlashcardHandler(
	db *sql.DB,
	flashcardStore store.FlashcardStore,
	logger *slog.Logger,
) *FlashcardHandler {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if flashcardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("flashcardStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FlashcardHandler{
		db:             db,
		flashcardStore: flashcardStore,
		logger:         logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateFlashcards handles POST /api/flashcards requests. All cards in the
// request are created in a single transaction: either every card is saved or
// none are.
func (h *FlashcardHandler) CreateFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cards := make([]*domain.Flashcard, 0, len(req.Flashcards))
	for i, item := range req.Flashcards {
		source := domain.FlashcardSource(item.Source)
		if item.Source == "" {
			source = domain.SourceManual
		}

		card, err := domain.NewFlashcard(userID, item.Front, item.Back, source, item.GenerationID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed",
				shared.WithDetails([]shared.FieldError{{
					Field:   "flashcards[" + strconv.Itoa(i) + "]",
					Message: err.Error(),
				}}))
			return
		}
		cards = append(cards, card)
	}

	err := store.RunInTransaction(r.Context(), h.db, func(ctx context.Context, tx *sql.Tx) error {
		return h.flashcardStore.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid entity data", err)
			return
		}
		log.Error("failed to create flashcards",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create flashcards")
		return
	}

	responses := make([]FlashcardResponse, len(cards))
	for i, card := range cards {
		responses[i] = flashcardToResponse(card)
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, map[string]interface{}{
		"flashcards": responses,
	})
}

// ListFlashcards handles GET /api/flashcards requests. Results are paginated
// newest first; the total count is returned with every page.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	page, pageSize, err := parsePagination(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.flashcardStore.List(r.Context(), userID, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list flashcards")
		return
	}

	responses := make([]FlashcardResponse, len(result.Flashcards))
	for i, card := range result.Flashcards {
		responses[i] = flashcardToResponse(card)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardListResponse{
		Flashcards: responses,
		Page:       page,
		PageSize:   pageSize,
		Total:      result.Total,
	})
}

// UpdateFlashcard handles PUT /api/flashcards/{id} requests. A card owned by
// another user is reported as not found.
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return
	}

	var req UpdateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	card, err := h.flashcardStore.GetByID(r.Context(), userID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Flashcard not found")
			return
		}
		log.Error("failed to get flashcard",
			slog.String("error", redact.Error(err)),
			slog.String("flashcard_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to update flashcard")
		return
	}

	if err := card.UpdateContent(req.Front, req.Back); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard data: "+err.Error())
		return
	}

	if err := h.flashcardStore.Update(r.Context(), card); err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Flashcard not found")
			return
		}
		log.Error("failed to update flashcard",
			slog.String("error", redact.Error(err)),
			slog.String("flashcard_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to update flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// DeleteFlashcard handles DELETE /api/flashcards/{id} requests. A card owned
// by another user is reported as not found. Deletion is permanent.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return
	}

	if err := h.flashcardStore.Delete(r.Context(), userID, cardID); err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Flashcard not found")
			return
		}
		log.Error("failed to delete flashcard",
			slog.String("error", redact.Error(err)),
			slog.String("flashcard_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to delete flashcard")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePagination reads the page and page_size query parameters, applying
// defaults and bounds.
func parsePagination(r *http.Request) (page, pageSize int, err error) {
	page = 1
	pageSize = defaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			return 0, 0, errors.New("page_size must be between 1 and 100")
		}
	}

	return page, pageSize, nil
}
