package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcanales/lanes/internal/api"
	"github.com/rcanales/lanes/internal/app"
	"github.com/rcanales/lanes/internal/config"
	"github.com/rcanales/lanes/internal/database"
	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the authoritative API server. Mutations are persisted to the
local database and broadcast to board subscribers through the event daemon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if err := logging.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := cfg.DBPath
	if dbPath == "" {
		if dbPath, err = database.DefaultDBPath(); err != nil {
			return err
		}
	}

	db, err := database.InitDB(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Connect to the event daemon if one is running; the server works
	// without it, mutations just go unbroadcast.
	var publisher events.Publisher
	client := events.NewClient(cfg.SocketPath)
	if err := client.Connect(ctx); err != nil {
		derr := events.ClassifyDaemonError(err)
		slog.Warn("event daemon unreachable, realtime broadcasts disabled",
			"reason", derr.Message, "hint", derr.Hint, "error", err)
	} else {
		publisher = client
		defer client.Close()
		// The daemon pings every client and drops ones that stop
		// answering; pong replies come from the read loop. The server
		// joins no boards, so this stream carries control traffic only.
		if keepalive, err := client.Listen(ctx); err == nil {
			go func() {
				for range keepalive {
				}
			}()
		}
	}

	container := app.New(repo, app.WithPublisher(publisher))

	// Request logs go to stdout as JSON; file logging keeps the rest.
	requestLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	router := api.NewRouter(
		container.BoardService,
		container.ColumnService,
		container.CardService,
		requestLogger,
	)

	srv := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server listening", "addr", cfg.APIAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
