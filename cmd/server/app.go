package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/config"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/generation"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/platform/openrouter"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/platform/postgres"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/service/auth"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/store"
)

// application holds the assembled dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore          store.UserStore
	flashcardStore     store.FlashcardStore
	generationLogStore store.GenerationLogStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.Generator
}

// newApplication wires up stores, services, and the generator from the
// loaded configuration.
func newApplication(cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	generator, err := openrouter.NewGenerator(cfg.LLM, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	return &application{
		config:             cfg,
		logger:             appLogger,
		db:                 db,
		userStore:          postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, appLogger),
		flashcardStore:     postgres.NewPostgresFlashcardStore(db, appLogger),
		generationLogStore: postgres.NewPostgresGenerationLogStore(db, appLogger),
		jwtService:         jwtService,
		passwordVerifier:   auth.NewBcryptVerifier(),
		generator:          generator,
	}, nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}

// run starts the HTTP server and blocks until shutdown.
func (app *application) run() error {
	return app.startHTTPServer(app.setupRouter())
}
