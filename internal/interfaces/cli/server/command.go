package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	tokenUC "helpdesk/internal/application/agenttoken/usecases"
	ticketUC "helpdesk/internal/application/ticket/usecases"
	"helpdesk/internal/domain/shared/events"
	"helpdesk/internal/infrastructure/cache"
	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/infrastructure/email"
	"helpdesk/internal/infrastructure/migration"
	"helpdesk/internal/infrastructure/repository"
	httpRouter "helpdesk/internal/interfaces/http"
	tokenHandlers "helpdesk/internal/interfaces/http/handlers/agenttoken"
	ticketHandlers "helpdesk/internal/interfaces/http/handlers/ticket"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/db"
	"helpdesk/internal/shared/logger"

	jwtauth "helpdesk/internal/infrastructure/auth"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the helpdesk HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	log.Infow("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.SetMode(mapEnvToGinMode(env))
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := handleMigrations(env, cfg, log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	dispatcher := events.NewInMemoryEventDispatcher(100)
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	defer func() {
		if err := dispatcher.Stop(); err != nil {
			log.Errorw("failed to stop event dispatcher", "error", err)
		}
	}()
	log.Infow("event dispatcher started")

	if cfg.Email.Enabled {
		notifier := email.NewTicketNotifier(email.NewSMTPEmailService(&cfg.Email), log)
		if err := notifier.Subscribe(dispatcher); err != nil {
			return fmt.Errorf("failed to subscribe email notifier: %w", err)
		}
		log.Infow("email notifications enabled", "smtp_host", cfg.Email.SMTPHost)
	}

	gormDB := database.Get()

	ticketRepo := repository.NewTicketRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	tokenRepo := repository.NewAgentTokenRepository(gormDB)
	usageLogRepo := repository.NewTokenUsageLogRepository(gormDB)
	dirRepo := repository.NewDirectoryRepository(gormDB)
	numberGen := repository.NewTicketNumberGenerator(gormDB)
	txRunner := db.NewTransactionManager(gormDB)

	idempotency := newIdempotencyStore(cfg, log)
	dedupWindow := time.Duration(cfg.Agent.UsageDedupWindowSeconds) * time.Second

	ticketHandler := ticketHandlers.NewTicketHandler(
		ticketUC.NewCreateTicketUseCase(ticketRepo, dirRepo, numberGen, dispatcher, log),
		ticketUC.NewApplyTransitionUseCase(ticketRepo, commentRepo, dirRepo, txRunner, dispatcher, log),
		ticketUC.NewAssignTicketUseCase(ticketRepo, dirRepo, dispatcher, log),
		ticketUC.NewAddCommentUseCase(ticketRepo, commentRepo, dirRepo, dispatcher, log),
		ticketUC.NewGetTicketUseCase(ticketRepo, commentRepo, dirRepo, log),
		ticketUC.NewListTicketsUseCase(ticketRepo, dirRepo, log),
		ticketUC.NewListTransitionsUseCase(ticketRepo, dirRepo, log),
		dirRepo,
	)

	tokenHandler := tokenHandlers.NewTokenHandler(
		tokenUC.NewIssueTokenUseCase(tokenRepo, dirRepo, dispatcher, cfg.Agent.TokenDefaultExpiryDays, log),
		tokenUC.NewValidateTokenUseCase(tokenRepo, log),
		tokenUC.NewRecordUsageUseCase(tokenRepo, usageLogRepo, idempotency, dedupWindow, log),
		tokenUC.NewSetTokenActiveUseCase(tokenRepo, dispatcher, log),
		tokenUC.NewDeleteTokenUseCase(tokenRepo, dispatcher, log),
		tokenUC.NewListTokensUseCase(tokenRepo, log),
		tokenUC.NewGetUsageHistoryUseCase(tokenRepo, usageLogRepo, log),
	)

	jwtService := jwtauth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	router := httpRouter.NewRouter(ticketHandler, tokenHandler, authMiddleware, log)
	router.SetupRoutes(cfg)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "address", cfg.Server.GetAddr())

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// newIdempotencyStore prefers redis so the dedup fence holds across
// instances; a single-node deployment falls back to the in-memory store.
func newIdempotencyStore(cfg *config.Config, log logger.Interface) tokenUC.IdempotencyStore {
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warnw("redis unavailable, using in-memory idempotency store", "error", err)
		return cache.NewMemoryIdempotencyStore()
	}
	return cache.NewRedisIdempotencyStore(client)
}

func handleMigrations(environment string, cfg *config.Config, log logger.Interface) error {
	if autoMigrate {
		if environment == "production" {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}

		log.Infow("running auto-migration")
		manager := migration.NewManager(environment, cfg.Database.Driver)
		if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Infow("auto-migration completed successfully")
		return nil
	}

	log.Infow("checking migration status")

	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		log.Warnw("failed to get migration scripts path", "error", err)
		return nil
	}

	strategy := migration.NewGooseStrategy(scriptsPath, cfg.Database.Driver)
	if gooseStrategy, ok := strategy.(*migration.GooseStrategy); ok {
		version, err := gooseStrategy.GetVersion(database.Get())
		if err != nil {
			log.Warnw("failed to check migration status", "error", err)
		} else {
			log.Infow("current migration version", "version", version)
		}
	}

	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
