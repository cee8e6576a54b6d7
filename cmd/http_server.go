package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/timeclock/api"
	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/calendar"
	"github.com/frahmantamala/timeclock/internal/core/events"
	"github.com/frahmantamala/timeclock/internal/punch"
	punchPostgres "github.com/frahmantamala/timeclock/internal/punch/postgres"
	"github.com/frahmantamala/timeclock/internal/transport"
	"github.com/frahmantamala/timeclock/internal/transport/rest"
	"github.com/frahmantamala/timeclock/internal/user"
	userPostgres "github.com/frahmantamala/timeclock/internal/user/postgres"
	"github.com/frahmantamala/timeclock/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config       *internal.Config
	DB           *sqlx.DB
	Router       *chi.Mux
	PunchHandler *punch.Handler
	Logger       *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "timezone", deps.Config.Clock.Zone())

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.DB, deps.PunchHandler, rest.RouterConfig{
		AllowedOrigins: deps.Config.Server.Origins(),
		Logger:         deps.Logger,
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slogger := logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	if _, err := api.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	cal, err := calendar.New(config.Clock.Zone())
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	bus := events.NewEventBus(slogger)
	bus.Subscribe(events.EventTypePunchRecorded, events.AuditLogger(slogger))

	userService := user.NewService(userPostgres.NewUserRepository(db), slogger)
	punchService := punch.NewService(
		punchPostgres.NewPunchRepository(gormDB),
		userService,
		cal,
		slogger,
		punch.WithPublisher(bus),
	)

	baseHandler := transport.NewBaseHandler(slogger)

	return &Dependencies{
		Config:       config,
		Logger:       slogger,
		DB:           db,
		Router:       chi.NewRouter(),
		PunchHandler: punch.NewHandler(baseHandler, punchService),
	}, nil
}
