package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/rcanales/lanes/internal/config"
	"github.com/rcanales/lanes/internal/daemon"
	"github.com/rcanales/lanes/internal/logging"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the realtime event daemon",
	Long: `Starts the event daemon that fans mutation events out to every
client subscribed to a board. Only one daemon runs per user.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context())
	},
}

func runDaemon(ctx context.Context) error {
	if err := logging.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SocketPath), 0o755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	// Exclusive lock ensures a single daemon per user.
	lockPath := filepath.Join(filepath.Dir(cfg.SocketPath), "daemon.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another lanes daemon is already running")
	}
	defer func() { _ = lock.Unlock() }()

	srv, err := daemon.NewServer(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("daemon listening", "socket", cfg.SocketPath)
	return srv.Start(ctx)
}
