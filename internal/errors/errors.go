// Package errors provides the application error type shared by the data
// context, the remote service adapter and the HTTP handlers.
//
// Only validation failures (budget and category deletion guards, bad input)
// are expected to reach the UI. Availability, persistence and session
// failures are logged and degrade silently.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so wrapped
// copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrNotAuthenticated   = &AppError{Code: "NOT_AUTHENTICATED", Message: "No user is signed in", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrDuplicateEmail     = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrAccessDenied       = &AppError{Code: "ACCESS_DENIED", Message: "You do not have access to this budget", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput      = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound          = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer    = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrRemoteUnavailable = &AppError{Code: "REMOTE_UNAVAILABLE", Message: "Remote store is unavailable", StatusCode: http.StatusServiceUnavailable}
	ErrNotImplemented    = &AppError{Code: "NOT_IMPLEMENTED", Message: "This feature is not available yet", StatusCode: http.StatusNotImplemented}
	ErrInvalidImport     = &AppError{Code: "INVALID_IMPORT", Message: "Import data is not valid JSON", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound   = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrNoActiveBudget   = &AppError{Code: "NO_ACTIVE_BUDGET", Message: "No active budget selected", StatusCode: http.StatusConflict}
	ErrLastBudget       = &AppError{Code: "LAST_BUDGET", Message: "Cannot delete the only budget", StatusCode: http.StatusConflict}
	ErrActiveBudget     = &AppError{Code: "ACTIVE_BUDGET", Message: "Cannot delete the active budget", StatusCode: http.StatusConflict}
	ErrShareCodeTaken   = &AppError{Code: "SHARE_CODE_TAKEN", Message: "Share code is already in use", StatusCode: http.StatusConflict}
	ErrEntryNotFound    = &AppError{Code: "ENTRY_NOT_FOUND", Message: "Entry not found", StatusCode: http.StatusNotFound}
	ErrInvalidEntryType = &AppError{Code: "INVALID_ENTRY_TYPE", Message: "Entry type must be income or expense", StatusCode: http.StatusBadRequest}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by entries in the active budget", StatusCode: http.StatusConflict}
)
