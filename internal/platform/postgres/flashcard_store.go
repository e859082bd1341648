package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/platform/logger"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/store"
)

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// It validates and inserts each card. Atomicity requires running within a
// transaction via WithTx; the service layer owns that transaction.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO flashcards (id, user_id, front, back, source, generation_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("flashcard validation failed during create",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		_, err := s.db.ExecContext(
			ctx,
			query,
			card.ID,
			card.UserID,
			card.Front,
			card.Back,
			card.Source,
			card.GenerationID,
			card.CreatedAt,
			card.UpdatedAt,
		)

		if err != nil {
			if isForeignKeyViolation(err) {
				log.Warn("foreign key violation during flashcard creation",
					slog.String("flashcard_id", card.ID.String()),
					slog.String("user_id", card.UserID.String()))
				return fmt.Errorf("%w: referenced user or generation not found",
					store.ErrInvalidEntity)
			}

			log.Error("failed to create flashcard",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()),
				slog.String("user_id", card.UserID.String()))
			return err
		}
	}

	log.Info("flashcards created successfully",
		slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID
// Returns store.ErrFlashcardNotFound if the card does not exist or belongs
// to another user.
func (s *PostgresFlashcardStore) GetByID(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, front, back, source, generation_id, created_at, updated_at
		FROM flashcards
		WHERE id = $1 AND user_id = $2
	`

	var card domain.Flashcard
	var source string
	var generationID uuid.NullUUID

	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&card.ID,
		&card.UserID,
		&card.Front,
		&card.Back,
		&source,
		&generationID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found",
				slog.String("flashcard_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard by ID",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return nil, err
	}

	card.Source = domain.FlashcardSource(source)
	if generationID.Valid {
		card.GenerationID = &generationID.UUID
	}
	return &card, nil
}

// List implements store.FlashcardStore.List
// It returns one page of the user's collection, newest first. The total
// count is computed in the same query with a window function rather than a
// second round trip.
func (s *PostgresFlashcardStore) List(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) (*store.FlashcardPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, user_id, front, back, source, generation_id, created_at, updated_at,
		       COUNT(*) OVER() AS total
		FROM flashcards
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	page := &store.FlashcardPage{Flashcards: []*domain.Flashcard{}}
	for rows.Next() {
		var card domain.Flashcard
		var source string
		var generationID uuid.NullUUID

		err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.Front,
			&card.Back,
			&source,
			&generationID,
			&card.CreatedAt,
			&card.UpdatedAt,
			&page.Total,
		)
		if err != nil {
			log.Error("failed to scan flashcard row",
				slog.String("error", err.Error()))
			return nil, err
		}

		card.Source = domain.FlashcardSource(source)
		if generationID.Valid {
			card.GenerationID = &generationID.UUID
		}
		page.Flashcards = append(page.Flashcards, &card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// An empty page past the end of the collection loses the window count;
	// fetch it separately only in that case.
	if len(page.Flashcards) == 0 && offset > 0 {
		countQuery := `SELECT COUNT(*) FROM flashcards WHERE user_id = $1`
		if err := s.db.QueryRowContext(ctx, countQuery, userID).Scan(&page.Total); err != nil {
			log.Error("failed to count flashcards",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
	}

	return page, nil
}

// Update implements store.FlashcardStore.Update
// The statement is scoped to the owning user; a card owned by someone else
// is reported as not found.
func (s *PostgresFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during update",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE flashcards
		SET front = $1, back = $2, source = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Front,
		card.Back,
		card.Source,
		card.UpdatedAt,
		card.ID,
		card.UserID,
	)

	if err != nil {
		log.Error("failed to update flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("flashcard not found for update",
			slog.String("flashcard_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return store.ErrFlashcardNotFound
	}

	log.Info("flashcard updated successfully",
		slog.String("flashcard_id", card.ID.String()))
	return nil
}

// Delete implements store.FlashcardStore.Delete
// The statement is scoped to the owning user; a card owned by someone else
// is reported as not found.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM flashcards WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("flashcard not found for delete",
			slog.String("flashcard_id", id.String()),
			slog.String("user_id", userID.String()))
		return store.ErrFlashcardNotFound
	}

	log.Info("flashcard deleted successfully",
		slog.String("flashcard_id", id.String()))
	return nil
}

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}
