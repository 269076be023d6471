package category

import "errors"

var (
	// ErrCategoryNotFound indicates the category doesn't exist for the user.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateName indicates the user already has a category with that name.
	ErrDuplicateName = errors.New("category name already exists")
	// ErrInvalidInput indicates invalid input for category operations.
	ErrInvalidInput = errors.New("invalid category input")
)
