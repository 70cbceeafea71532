package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shotmetrics/target-score/internal/config"
	"github.com/shotmetrics/target-score/internal/logger"
	"github.com/shotmetrics/target-score/internal/storage"
	"github.com/shotmetrics/target-score/internal/target"
	"github.com/shotmetrics/target-score/internal/transport"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}

	targets, err := loadTargets(cfg.TargetsDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load target definitions")
	}
	if _, ok := targets[cfg.DefaultTarget]; !ok {
		logger.WithField("target", cfg.DefaultTarget).Fatal("Default target is not registered")
	}

	fetcher := newFetcher(cfg)
	handler := transport.NewHandler(fetcher, targets, cfg.DefaultTarget, cfg)

	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      handler,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.WithField("address", cfg.ServerAddress()).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// newFetcher picks the image source from the environment: Azure blob
// storage when credentials are configured, plain HTTP otherwise.
func newFetcher(cfg *config.Config) storage.ImageFetcher {
	account := os.Getenv("AZURE_STORAGE_ACCOUNT")
	key := os.Getenv("AZURE_STORAGE_KEY")
	if account != "" && key != "" {
		fetcher, err := storage.NewAzureFetcher(account, key)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Azure fetcher")
		}
		logger.WithField("account", account).Info("Using Azure blob image source")
		return fetcher
	}
	return storage.NewHTTPFetcher(cfg.ImageFetchTimeout)
}

// loadTargets registers every built-in definition plus any *.json files
// found in extraDir.
func loadTargets(extraDir string) (map[string]*target.Config, error) {
	targets := make(map[string]*target.Config)
	for _, name := range target.BuiltinNames() {
		cfg, err := target.Builtin(name)
		if err != nil {
			return nil, fmt.Errorf("broken built-in target %s: %w", name, err)
		}
		targets[name] = cfg
	}

	if extraDir == "" {
		return targets, nil
	}
	entries, err := os.ReadDir(extraDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		cfg, err := target.LoadFile(filepath.Join(extraDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to load target %s: %w", entry.Name(), err)
		}
		targets[strings.TrimSuffix(entry.Name(), ".json")] = cfg
	}
	return targets, nil
}
