package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/profile"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
)

// Error codes returned in APIError.Code.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	CodeDuplicateCategory  = "DUPLICATE_CATEGORY"
	CodeSuggestionNotFound = "SUGGESTION_NOT_FOUND"
	CodeAlreadyResolved    = "ALREADY_RESOLVED"
	CodeInternal           = "INTERNAL"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeValue exposes the code to transports that do not import this package.
func (e *APIError) CodeValue() string {
	return e.Code
}

func invalidInput(message string) *APIError {
	return &APIError{Code: CodeInvalidInput, Message: message}
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, category.ErrInvalidInput),
		errors.Is(err, suggestion.ErrInvalidInput),
		errors.Is(err, profile.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error(), RecoveryHint: "Check required arguments"}
	case errors.Is(err, category.ErrCategoryNotFound), errors.Is(err, activity.ErrInvalidCategory):
		return &APIError{Code: CodeCategoryNotFound, Message: "category not found", RecoveryHint: "Call list_categories for valid IDs"}
	case errors.Is(err, category.ErrDuplicateName):
		return &APIError{Code: CodeDuplicateCategory, Message: "category name already exists", RecoveryHint: "Pick another name"}
	case errors.Is(err, suggestion.ErrSuggestionNotFound):
		return &APIError{Code: CodeSuggestionNotFound, Message: "suggestion not found", RecoveryHint: "Call list_suggestions"}
	case errors.Is(err, suggestion.ErrAlreadyResolved):
		return &APIError{Code: CodeAlreadyResolved, Message: "suggestion already resolved"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
