package card

import "errors"

// Card-related errors
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrTitleTooLong    = errors.New("title cannot exceed 255 characters")
	ErrInvalidCardID   = errors.New("invalid card ID")
	ErrInvalidColumnID = errors.New("invalid column ID")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidType     = errors.New("invalid card type")
	ErrEmptyTag        = errors.New("tag cannot be empty")
)
