package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	columnsvc "github.com/rcanales/lanes/internal/services/column"
)

type ColumnHandler struct {
	svc columnsvc.Service
}

func NewColumnHandler(svc columnsvc.Service) *ColumnHandler {
	return &ColumnHandler{svc: svc}
}

type columnRequest struct {
	Name string `json:"name"`
}

type moveColumnRequest struct {
	Position float64 `json:"position"`
}

// Create handles POST /api/boards/{id}/columns
func (h *ColumnHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	col, err := h.svc.CreateColumn(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

// Get handles GET /api/columns/{id}
func (h *ColumnHandler) Get(w http.ResponseWriter, r *http.Request) {
	col, err := h.svc.GetColumn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

// Update handles PATCH /api/columns/{id}
func (h *ColumnHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	col, err := h.svc.UpdateColumn(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

// Delete handles DELETE /api/columns/{id}
func (h *ColumnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteColumn(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move handles POST /api/columns/{id}/move
func (h *ColumnHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveColumnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	col, err := h.svc.MoveColumn(r.Context(), chi.URLParam(r, "id"), req.Position)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}
