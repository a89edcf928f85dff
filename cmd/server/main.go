// Package main implements the entry point for the lexsnap review server,
// the local API that schedules vocabulary reviews and tracks progression.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexsnap/lexsnap/internal/config"
	"github.com/lexsnap/lexsnap/internal/domain/srs"
	"github.com/lexsnap/lexsnap/internal/platform/logger"
	"github.com/lexsnap/lexsnap/internal/platform/sqlite"
	"github.com/lexsnap/lexsnap/internal/service/ledger"
	"github.com/lexsnap/lexsnap/internal/service/review"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// application holds the wired dependencies of the server process.
type application struct {
	config        *config.Config
	logger        *slog.Logger
	db            *sql.DB
	reviewService review.ReviewService
}

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := app.run(); err != nil {
		app.logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// initializeApp loads configuration, sets up logging, opens and migrates the
// database, and wires the service graph.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_path", cfg.Database.Path))

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlite.MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	srsService := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		LapseRetryMinutes:  cfg.SRS.LapseRetryMinutes,
		FirstIntervalDays:  cfg.SRS.FirstIntervalDays,
		SecondIntervalDays: cfg.SRS.SecondIntervalDays,
	}))

	reviewService := review.NewReviewService(
		db,
		sqlite.NewSQLiteCollectionStore(db, appLogger),
		sqlite.NewSQLiteCardStateStore(db, appLogger),
		sqlite.NewSQLiteProgressStore(db, appLogger),
		srsService,
		ledger.NewService(appLogger),
		nil,
		appLogger,
	)

	return &application{
		config:        cfg,
		logger:        appLogger,
		db:            db,
		reviewService: reviewService,
	}, nil
}

// run starts the HTTP server and blocks until a termination signal arrives,
// then drains in-flight requests.
func (app *application) run() error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		app.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	app.logger.Info("server stopped")
	return nil
}
