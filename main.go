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

	"emissionsdash/internal/config"
	"emissionsdash/internal/dataset"
	"emissionsdash/internal/logger"
	"emissionsdash/internal/metrics"
	"emissionsdash/internal/server"
	"emissionsdash/internal/storage"
)

// newServer loads the emission table named by cfg and builds the dashboard server around it
func newServer(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	client, objectPath, err := storage.Open(ctx, cfg.DataPath, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open data location: %w", err)
	}

	table, err := dataset.Load(ctx, client, objectPath, cfg.Delimiter())
	if err != nil {
		client.Close()
		return nil, err
	}
	metrics.SetDatasetRows(table.Len())

	srv, err := server.NewServer(cfg, table, client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	return srv, nil
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	logger.Info("Starting emission comparison dashboard", map[string]interface{}{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"data_path":   cfg.DataPath,
		"version":     config.GetVersion(),
	})

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.HTTPTimeout)
	srv, err := newServer(loadCtx, cfg)
	cancelLoad()
	if err != nil {
		logger.Fatal("Failed to start dashboard", err)
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
