package app

import (
	"github.com/rcanales/lanes/internal/database"
	"github.com/rcanales/lanes/internal/events"
	boardservice "github.com/rcanales/lanes/internal/services/board"
	cardservice "github.com/rcanales/lanes/internal/services/card"
	columnservice "github.com/rcanales/lanes/internal/services/column"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	repo database.DataStore

	// Event system for live updates
	publisher events.Publisher

	// Service layer (business logic)
	BoardService  boardservice.Service
	ColumnService columnservice.Service
	CardService   cardservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(repo database.DataStore, opts ...Option) *App {
	cfg := &appConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return &App{
		repo:          repo,
		publisher:     cfg.publisher,
		BoardService:  boardservice.NewService(repo),
		ColumnService: columnservice.NewService(repo, cfg.publisher),
		CardService:   cardservice.NewService(repo, cfg.publisher),
	}
}

// Repo returns the underlying repository for direct database access.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Close performs cleanup of application resources.
func (a *App) Close() error {
	if closer, ok := a.publisher.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
