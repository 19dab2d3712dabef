package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/slidesmith/slidesmith-api/internal/config"
	"github.com/slidesmith/slidesmith-api/internal/generation"
	"github.com/slidesmith/slidesmith-api/internal/infographic"
	"github.com/slidesmith/slidesmith-api/internal/platform/bedrock"
	"github.com/slidesmith/slidesmith-api/internal/platform/gemini"
	"github.com/slidesmith/slidesmith-api/internal/platform/openai"
	"github.com/slidesmith/slidesmith-api/internal/platform/postgres"
	"github.com/slidesmith/slidesmith-api/internal/service/auth"
	"github.com/slidesmith/slidesmith-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	sowStore  store.SowStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	generator   generation.DocumentGenerator
	infographer *infographic.Service
	fileStore   *infographic.FileStore
}

// newApplication creates a new application instance with all dependencies
// initialized. Core dependencies like configuration, logger, and the
// database connection must be established before calling it.
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

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewUserStore(db, bcrypt.DefaultCost, logger)
	app.sowStore = postgres.NewSowStore(db, logger)

	invoker, err := newModelInvoker(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model transport: %w", err)
	}
	logger.Info("model transport initialized", "provider", cfg.LLM.Provider)

	app.generator, err = generation.NewService(invoker, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation service: %w", err)
	}

	imageClient, err := bedrock.NewImageClient(ctx, logger, cfg.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image client: %w", err)
	}

	app.fileStore, err = infographic.NewFileStore(cfg.Image.PublicDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image file store: %w", err)
	}

	app.infographer, err = infographic.NewService(
		invoker,
		imageClient,
		app.fileStore,
		cfg.Image.PlaceholderPath,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize infographic service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// newModelInvoker selects the text-generation transport for the configured
// provider.
func newModelInvoker(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (generation.ModelInvoker, error) {
	transportLogger := logger.With("component", "model_transport")

	switch strings.ToLower(cfg.LLM.Provider) {
	case "bedrock":
		return bedrock.NewInvoker(ctx, transportLogger, cfg.LLM)
	case "gemini":
		return gemini.NewInvoker(ctx, transportLogger, cfg.LLM)
	case "openai":
		return openai.NewInvoker(transportLogger, cfg.LLM)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLM.Provider)
	}
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
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
