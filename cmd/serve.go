package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cwbudde/anneal/internal/config"
	"github.com/cwbudde/anneal/internal/server"
	"github.com/cwbudde/anneal/internal/store"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveDataDir string
	serveBackend string
	configPath   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP job server",
	Long: `Starts the HTTP server that runs annealing jobs in the background.
Completed runs are persisted to the configured store; recorded trajectories
are written next to them and served via the trace endpoint.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "Base directory for run storage (overrides config)")
	serveCmd.Flags().StringVar(&serveBackend, "store", "", "Store backend: fs or sqlite (overrides config)")
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Flags override file values
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveDataDir != "" {
		cfg.Store.DataDir = serveDataDir
	}
	if serveBackend != "" {
		cfg.Store.Backend = serveBackend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runStore, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.NewServer(cfg.Server.Addr, runStore, cfg.Store.DataDir, cfg.Defaults)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore builds the configured run store. The returned close function
// is a no-op for the filesystem backend.
func openStore(cfg config.StoreConfig) (store.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s, err := store.OpenSQLite(filepath.Join(cfg.DataDir, "runs.db"), cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return s, func() {
			if err := s.Close(); err != nil {
				slog.Warn("Failed to close sqlite store", "error", err)
			}
		}, nil
	case config.BackendFS:
		s, err := store.NewFSStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create run store: %w", err)
		}
		return s, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
