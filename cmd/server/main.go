package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/sheet-tables-server/internal/api"
	"github.com/rongwang/sheet-tables-server/internal/config"
	"github.com/rongwang/sheet-tables-server/internal/repository"
	"github.com/rongwang/sheet-tables-server/internal/scheduler"
	"github.com/rongwang/sheet-tables-server/internal/service"
	"github.com/rongwang/sheet-tables-server/internal/sheets"
	"github.com/rongwang/sheet-tables-server/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	// Set up the store
	repo, closeStore, err := setupRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// Set up the spreadsheet provider
	fetcher, err := setupFetcher(ctx, cfg)
	if err != nil {
		return err
	}

	svc := service.NewDefaultService(repo, fetcher, logger, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	sched, err := scheduler.New(cfg.Sync.Schedule, svc, logger, time.Hour)
	if err != nil {
		return err
	}
	if sched != nil {
		sched.Start()
		defer sched.Stop()
		logger.Info("Periodic sync enabled (%s)", cfg.Sync.Schedule)
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(svc, logger), logger, []byte(cfg.Auth.JWTSecret))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server on %s (store=%s, sheets=%s)", srv.Addr, cfg.Store.Driver, cfg.Sheets.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func setupRepository(ctx context.Context, cfg *config.Config) (repository.Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, db, err := config.SetupMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewMongoRepository(ctx, db)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.StoreDriverMemory:
		return repository.NewMemoryRepository(), func() {}, nil

	default:
		db, err := config.SetupDatabase(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set up database: %w", err)
		}
		return repository.NewPostgresRepository(db), func() { db.Close() }, nil
	}
}

func setupFetcher(ctx context.Context, cfg *config.Config) (sheets.Fetcher, error) {
	if cfg.Sheets.Driver == config.SheetsDriverXLSX {
		return sheets.NewXLSXFetcher(cfg.Sheets.XLSXDir, cfg.Sheets.Range), nil
	}

	return sheets.NewGoogleFetcher(ctx, sheets.GoogleOptions{
		CredentialsFile: cfg.Sheets.CredentialsFile,
		CredentialsJSON: cfg.Sheets.CredentialsJSON,
		APIKey:          cfg.Sheets.APIKey,
		Endpoint:        cfg.Sheets.Endpoint,
		Range:           cfg.Sheets.Range,
		Timeout:         cfg.Sheets.Timeout,
	})
}
