package models

import "errors"

// Shared domain errors. Service packages define their own validation
// sentinels; these are the ones repositories return directly.
var (
	ErrBoardNotFound  = errors.New("board not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrCardNotFound   = errors.New("card not found")
)
