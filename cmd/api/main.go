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

	"filesmanager/internal/blob"
	"filesmanager/internal/config"
	"filesmanager/internal/database"
	"filesmanager/internal/pkg/logging"
	"filesmanager/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const sessionGCInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBDatabase, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			log.Warn("database close failed", zap.Error(err))
		}
	}()

	sessions, err := session.OpenBadger(cfg.SessionDBPath, log.Named("session"))
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer func() {
		stop() // ends RunGC before the store closes
		if err := sessions.Close(); err != nil {
			log.Warn("session store close failed", zap.Error(err))
		}
	}()
	go sessions.RunGC(ctx, sessionGCInterval)

	blobs, err := blob.NewStore(cfg.FolderPath)
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := newRouter(routerDeps{
		cfg:      cfg,
		log:      log,
		stores:   stores,
		sessions: sessions,
		blobs:    blobs,
		registry: registry,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("folder_path", blobs.Root()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
