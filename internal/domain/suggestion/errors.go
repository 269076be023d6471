package suggestion

import "errors"

var (
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrAlreadyResolved    = errors.New("suggestion already resolved")
	ErrInvalidInput       = errors.New("invalid input")
)
