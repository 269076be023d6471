package activity

import "errors"

var (
	// ErrInvalidInput indicates a sample is missing required fields.
	ErrInvalidInput = errors.New("invalid sample input")
	// ErrInvalidCategory indicates the sample references a category the user does not own.
	ErrInvalidCategory = errors.New("category does not belong to user")
)
