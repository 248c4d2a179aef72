package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/behavior-profile/internal/api"
	assessmentapi "github.com/futig/behavior-profile/internal/api/assessment"
	"github.com/futig/behavior-profile/internal/auth"
	"github.com/futig/behavior-profile/internal/catalog"
	"github.com/futig/behavior-profile/internal/config"
	"github.com/futig/behavior-profile/internal/integration/profile"
	"github.com/futig/behavior-profile/internal/pkg/formatter"
	"github.com/futig/behavior-profile/internal/pkg/logger"
	"github.com/futig/behavior-profile/internal/pkg/validator"
	"github.com/futig/behavior-profile/internal/repository"
	"github.com/futig/behavior-profile/internal/telegram"
	"github.com/futig/behavior-profile/internal/telegram/state"
	"github.com/futig/behavior-profile/internal/usecase/questionnaire"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// core holds what the API and the bot binaries share
type core struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *pgxpool.Pool
	usecase *questionnaire.QuestionnaireUsecase
}

// close tears down live sessions and the journal pool. It returns the number
// of sessions closed.
func (c *core) close() int {
	closed := 0
	if c.usecase != nil {
		closed = c.usecase.CloseAll()
	}
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
	return closed
}

// buildCore loads the configuration and wires the questionnaire use case.
// credentials is the default token source of new sessions.
func buildCore(ctx context.Context, credentials auth.Provider) (*core, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	options := catalog.Default()
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("validate option catalog: %w", err)
	}

	c := &core{cfg: cfg, logger: log}

	var journal repository.SubmissionRepository = repository.NoopSubmissionRepository{}
	if cfg.JournalEnabled() {
		c.db, err = setupDatabase(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		log.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			c.close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("Database migrations completed successfully")

		journal = repository.NewSubmissionPostgres(c.db)
	} else {
		log.Info("Submission journal disabled, DATABASE_URL is not set")
	}

	var connector questionnaire.ScoringConnector
	if cfg.EnableMocks {
		log.Info("Using mock scoring connector")
		connector = profile.NewMockConnector(log)
	} else {
		log.Info("Using scoring service", zap.String("url", cfg.ScoringCfg.Url))
		connector = profile.NewConnector(cfg.ScoringCfg, log)
	}

	if cfg.AuthCfg.DevToken != "" {
		log.Warn("AUTH_DEV_TOKEN is set, unauthenticated callers will use it")
		credentials = auth.Chain{credentials, auth.NewStaticProvider(cfg.AuthCfg.DevToken)}
	}

	c.usecase = questionnaire.NewUsecase(
		questionnaire.Config{
			AutoAdvanceDelay: cfg.AssessmentCfg.AutoAdvanceDelay,
			SessionTTL:       cfg.AssessmentCfg.SessionTTL,
			CleanupInterval:  cfg.AssessmentCfg.CleanupInterval,
		},
		connector,
		options,
		journal,
		formatter.NewFactory(),
		credentials,
		log,
	)
	log.Info("Use cases initialized")

	return c, nil
}

// Build wires the HTTP API
func Build() (*App, error) {
	c, err := buildCore(context.Background(), auth.ContextProvider{})
	if err != nil {
		return nil, err
	}

	assessmentHandler := assessmentapi.NewHandler(c.usecase, validator.NewValidator())
	router := api.SetupRouter(assessmentHandler, c.cfg.RequestTimeout, c.logger)
	c.logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         c.cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: c.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	c.logger.Info("Application built successfully",
		zap.String("environment", c.cfg.Environment),
	)

	return &App{
		daemon: httpDaemon{server: server},
		core:   c,
		logger: c.logger,
	}, nil
}

// BuildTelegramBot wires the Telegram host on the same core as the API
func BuildTelegramBot() (*App, error) {
	// sessions started from the chat carry the user's own token source
	c, err := buildCore(context.Background(), auth.Chain{})
	if err != nil {
		return nil, err
	}

	if err := c.cfg.ValidateTelegram(); err != nil {
		c.close()
		return nil, err
	}

	tokens := auth.NewTokenStore(c.cfg.AuthCfg.TokenTTL, c.cfg.AssessmentCfg.CleanupInterval)
	storage := state.NewMemoryStorage(c.cfg.AssessmentCfg.SessionTTL, c.cfg.AssessmentCfg.CleanupInterval)

	bot, err := telegram.NewBot(&c.cfg.TelegramCfg, storage, c.usecase, tokens, c.logger)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	c.logger.Info("Telegram bot built successfully",
		zap.String("environment", c.cfg.Environment),
	)

	return &App{
		daemon: botDaemon{bot: bot},
		core:   c,
		logger: c.logger,
	}, nil
}
