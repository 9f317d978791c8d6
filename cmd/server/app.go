package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/rxstudy-api/internal/config"
	"github.com/phrazzld/rxstudy-api/internal/domain/srs"
	"github.com/phrazzld/rxstudy-api/internal/generation"
	"github.com/phrazzld/rxstudy-api/internal/platform/gemini"
	"github.com/phrazzld/rxstudy-api/internal/platform/postgres"
	"github.com/phrazzld/rxstudy-api/internal/service"
	"github.com/phrazzld/rxstudy-api/internal/service/auth"
	"github.com/phrazzld/rxstudy-api/internal/service/review"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore      store.UserStore
	drugStore      store.DrugStore
	progressStore  store.ProgressStore
	sessionStore   store.SessionStore
	quizScoreStore store.QuizScoreStore
	noteStore      store.NoteStore
	bookmarkStore  store.BookmarkStore

	// Service interfaces
	jwtService     auth.JWTService
	userService    service.UserService
	drugService    service.DrugService
	sessionService service.SessionService
	quizService    service.QuizService
	reviewService  review.Service
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts the core dependencies that must be established
// before application wiring: configuration, logger, and an open database
// connection.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.drugStore = postgres.NewPostgresDrugStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.quizScoreStore = postgres.NewPostgresQuizScoreStore(db, logger)
	app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	app.bookmarkStore = postgres.NewPostgresBookmarkStore(db, logger)

	// The drug draft generator is optional: without an API key the
	// drafting endpoint reports itself unavailable.
	var drugGenerator generation.DrugGenerator
	gen, err := gemini.NewDrugGenerator(ctx, logger.With("component", "drug_generator"), cfg.LLM)
	switch {
	case err == nil:
		drugGenerator = gen
		logger.Info("Drug draft generator initialized", "model", cfg.LLM.ModelName)
	case errors.Is(err, generation.ErrInvalidConfig):
		logger.Info("Drug draft generator disabled: no API key configured")
	default:
		return nil, fmt.Errorf("failed to initialize drug draft generator: %w", err)
	}

	// Services
	app.userService = service.NewUserService(
		db,
		app.userStore,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		logger,
	)
	app.drugService = service.NewDrugService(
		db,
		app.drugStore,
		app.bookmarkStore,
		app.noteStore,
		drugGenerator,
		logger,
	)
	app.sessionService = service.NewSessionService(
		db,
		app.sessionStore,
		app.progressStore,
		app.drugStore,
		app.quizScoreStore,
		logger,
	)
	app.quizService = service.NewQuizService(
		db,
		app.drugStore,
		app.quizScoreStore,
		nil,
		logger,
	)
	app.reviewService = review.NewService(
		db,
		app.drugStore,
		app.progressStore,
		srs.NewDefaultScheduler(),
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
