package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	boardsvc "github.com/rcanales/lanes/internal/services/board"
)

type BoardHandler struct {
	svc boardsvc.Service
}

func NewBoardHandler(svc boardsvc.Service) *BoardHandler {
	return &BoardHandler{svc: svc}
}

type boardRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/boards
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	boards, err := h.svc.ListBoards(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// Create handles POST /api/boards
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	board, err := h.svc.CreateBoard(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// Get handles GET /api/boards/{id}
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.GetBoard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// Detail handles GET /api/boards/{id}/detail, the full initial-load payload
// with columns and cards pre-sorted by position.
func (h *BoardHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetBoardDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Update handles PATCH /api/boards/{id}
func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	board, err := h.svc.UpdateBoard(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// Delete handles DELETE /api/boards/{id}
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBoard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
