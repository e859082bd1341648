package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/platform/logger"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/store"
)

// PostgresGenerationLogStore implements the store.GenerationLogStore
// interface using a PostgreSQL database as the storage backend.
type PostgresGenerationLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationLogStore creates a new PostgreSQL implementation of
// the GenerationLogStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresGenerationLogStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationLogStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_log_store")),
	}
}

// Ensure PostgresGenerationLogStore implements store.GenerationLogStore interface
var _ store.GenerationLogStore = (*PostgresGenerationLogStore)(nil)

// Create implements store.GenerationLogStore.Create
// The log row holds metadata only; the submitted text never reaches this
// table.
func (s *PostgresGenerationLogStore) Create(ctx context.Context, genLog *domain.GenerationLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := genLog.Validate(); err != nil {
		log.Warn("generation log validation failed",
			slog.String("error", err.Error()),
			slog.String("generation_id", genLog.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO generation_logs
			(id, user_id, model, input_length, suggestion_count, tokens_used, status, error_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		genLog.ID,
		genLog.UserID,
		genLog.Model,
		genLog.InputLength,
		genLog.SuggestionCount,
		genLog.TokensUsed,
		genLog.Status,
		genLog.ErrorCode,
		genLog.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during generation log creation",
				slog.String("generation_id", genLog.ID.String()),
				slog.String("user_id", genLog.UserID.String()))
			return fmt.Errorf("%w: referenced user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create generation log",
			slog.String("error", err.Error()),
			slog.String("generation_id", genLog.ID.String()))
		return err
	}

	log.Debug("generation log created",
		slog.String("generation_id", genLog.ID.String()),
		slog.String("status", string(genLog.Status)))
	return nil
}
