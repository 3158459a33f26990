package cmd

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcanales/lanes/internal/api"
	"github.com/rcanales/lanes/internal/config"
	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/logging"
	"github.com/rcanales/lanes/internal/tui"
)

// runBoard launches the interactive board TUI.
func runBoard(ctx context.Context) error {
	if err := logging.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL)

	// The realtime channel is optional: without a daemon the board still
	// works, the status bar just shows it is offline.
	var eventClient *events.Client
	var eventCh <-chan events.BoardEvent
	ec := events.NewClient(cfg.SocketPath)
	if err := ec.Connect(ctx); err != nil {
		derr := events.ClassifyDaemonError(err)
		slog.Warn("event daemon unreachable, live updates disabled",
			"reason", derr.Message, "hint", derr.Hint, "error", err)
	} else {
		ch, err := ec.Listen(ctx)
		if err != nil {
			slog.Warn("failed to start event stream", "error", err)
			_ = ec.Close()
		} else {
			eventClient = ec
			eventCh = ch
			defer ec.Close()
		}
	}

	model := tui.NewModel(client, eventClient, eventCh)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}
