package api

import (
	"encoding/json"
	"errors"
	"net/http"

	boardsvc "github.com/rcanales/lanes/internal/services/board"
	cardsvc "github.com/rcanales/lanes/internal/services/card"
	columnsvc "github.com/rcanales/lanes/internal/services/column"

	"github.com/rcanales/lanes/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeServiceError maps service failures onto HTTP statuses: not-found ids
// become 404, validation failures 400, anything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrBoardNotFound),
		errors.Is(err, models.ErrColumnNotFound),
		errors.Is(err, models.ErrCardNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func isValidationError(err error) bool {
	for _, v := range []error{
		boardsvc.ErrEmptyName, boardsvc.ErrNameTooLong, boardsvc.ErrInvalidBoardID,
		columnsvc.ErrEmptyName, columnsvc.ErrNameTooLong, columnsvc.ErrInvalidColumnID, columnsvc.ErrInvalidBoardID,
		cardsvc.ErrEmptyTitle, cardsvc.ErrTitleTooLong, cardsvc.ErrInvalidCardID, cardsvc.ErrInvalidColumnID,
		cardsvc.ErrInvalidPriority, cardsvc.ErrInvalidType, cardsvc.ErrEmptyTag,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
