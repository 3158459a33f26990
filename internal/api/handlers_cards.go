package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rcanales/lanes/internal/models"
	cardsvc "github.com/rcanales/lanes/internal/services/card"
)

type CardHandler struct {
	svc cardsvc.Service
}

func NewCardHandler(svc cardsvc.Service) *CardHandler {
	return &CardHandler{svc: svc}
}

type createCardRequest struct {
	ColumnID    string     `json:"column_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Type        string     `json:"type"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
	Position    *float64   `json:"position"`
}

type updateCardRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Type        *string    `json:"type"`
	DueDate     *time.Time `json:"due_date"`
}

type moveCardRequest struct {
	ColumnID string  `json:"column_id"`
	Position float64 `json:"position"`
}

type tagRequest struct {
	Tag string `json:"tag"`
}

// Create handles POST /api/cards
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	card, err := h.svc.CreateCard(r.Context(), cardsvc.CreateCardRequest{
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.Priority(req.Priority),
		Type:        models.CardType(req.Type),
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Position:    req.Position,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// Get handles GET /api/cards/{id}
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Update handles PATCH /api/cards/{id}
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	update := cardsvc.UpdateCardRequest{
		CardID:      chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		update.Priority = &p
	}
	if req.Type != nil {
		t := models.CardType(*req.Type)
		update.Type = &t
	}

	card, err := h.svc.UpdateCard(r.Context(), update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Delete handles DELETE /api/cards/{id}
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move handles POST /api/cards/{id}/move, the commit of a drag gesture.
func (h *CardHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	card, err := h.svc.MoveCard(r.Context(), chi.URLParam(r, "id"), req.ColumnID, req.Position)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// AttachTag handles POST /api/cards/{id}/tags
func (h *CardHandler) AttachTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	card, err := h.svc.AttachTag(r.Context(), chi.URLParam(r, "id"), req.Tag)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// DetachTag handles DELETE /api/cards/{id}/tags/{tag}
func (h *CardHandler) DetachTag(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.DetachTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tag"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}
