package board

import "errors"

// Board-related errors
var (
	ErrEmptyName      = errors.New("name cannot be empty")
	ErrNameTooLong    = errors.New("name cannot exceed 100 characters")
	ErrInvalidBoardID = errors.New("invalid board ID")
)
