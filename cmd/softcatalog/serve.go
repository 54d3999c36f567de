// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"softcatalog/internal/cache"
	"softcatalog/internal/config"
	"softcatalog/internal/database"
	"softcatalog/internal/filestore"
	"softcatalog/internal/handlers"
	"softcatalog/internal/middleware"
	"softcatalog/internal/router"
	"softcatalog/internal/store"
)

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		return err
	}

	// Seed development data (no-op if an admin already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			slog.Error("failed to seed database", "error", err)
			return err
		}
	}

	var lists *cache.ListCache
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			return err
		}
		defer client.Close()
		lists = cache.NewListCache(client, cfg.ListCacheTTL)
		slog.Info("list cache enabled", "ttl", cfg.ListCacheTTL)
	} else {
		slog.Warn("valkey not configured, list caching disabled")
	}

	backend, err := newBackend(cfg)
	if err != nil {
		slog.Error("failed to initialize file storage", "error", err)
		return err
	}
	files := filestore.New(backend)

	api := handlers.NewAPI(
		store.NewAdminStore(db),
		store.NewPlatformStore(db),
		store.NewCategoryStore(db),
		store.NewSoftwareStore(db),
		files,
		lists,
		cfg.MaxUploadBytes,
	)

	limiter := middleware.NewRateLimiter(cfg.WriteRateLimit, cfg.WriteRateBurst, cfg.TrustProxy)
	defer limiter.Stop()

	// WriteTimeout must cover large multipart uploads on slow links.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(api, files.Handler(), limiter),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newBackend selects the asset storage configured by STORAGE_DRIVER.
func newBackend(cfg *config.Config) (filestore.Backend, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		b, err := filestore.NewS3(filestore.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return b, nil
	case config.StorageDisk:
		slog.Info("disk storage configured", "dir", cfg.PublicDir)
		return filestore.NewDisk(cfg.PublicDir), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
