package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	boardsvc "github.com/rcanales/lanes/internal/services/board"
	cardsvc "github.com/rcanales/lanes/internal/services/card"
	columnsvc "github.com/rcanales/lanes/internal/services/column"
)

// NewRouter creates the chi router with all routes and middleware.
func NewRouter(
	boards boardsvc.Service,
	columns columnsvc.Service,
	cards cardsvc.Service,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	boardH := NewBoardHandler(boards)
	columnH := NewColumnHandler(columns)
	cardH := NewCardHandler(cards)

	r.Get("/health", Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/boards", func(r chi.Router) {
			r.Get("/", boardH.List)
			r.Post("/", boardH.Create)
			r.Get("/{id}", boardH.Get)
			r.Get("/{id}/detail", boardH.Detail)
			r.Patch("/{id}", boardH.Update)
			r.Delete("/{id}", boardH.Delete)
			r.Post("/{id}/columns", columnH.Create)
		})

		r.Route("/columns", func(r chi.Router) {
			r.Get("/{id}", columnH.Get)
			r.Patch("/{id}", columnH.Update)
			r.Delete("/{id}", columnH.Delete)
			r.Post("/{id}/move", columnH.Move)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cardH.Create)
			r.Get("/{id}", cardH.Get)
			r.Patch("/{id}", cardH.Update)
			r.Delete("/{id}", cardH.Delete)
			r.Post("/{id}/move", cardH.Move)
			r.Post("/{id}/tags", cardH.AttachTag)
			r.Delete("/{id}/tags/{tag}", cardH.DetachTag)
		})
	})

	return r
}
