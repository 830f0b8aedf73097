package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these so callers can
// branch with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error is a failure that is safe to show to the caller as-is.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NewErrorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: "Please fix the highlighted fields", Fields: fields}
}

var (
	ErrCampaignNotFound     = NewError(ErrNotFound, "Campaign not found")
	ErrApplicationNotFound  = NewError(ErrNotFound, "Volunteer application not found")
	ErrNotificationNotFound = NewError(ErrNotFound, "Notification not found")
	ErrMessageNotFound      = NewError(ErrNotFound, "Message not found")
	ErrUserNotFound         = NewError(ErrNotFound, "User not found")

	ErrAlreadyApplied = NewError(ErrConflict, "You have already applied to this campaign")
	ErrCampaignFull   = NewError(ErrConflict, "Campaign is already full")
	ErrCampaignClosed = NewError(ErrConflict, "Campaign is not accepting applications")

	ErrAccessDenied = NewError(ErrForbidden, "Access denied")
	ErrNotAuthed    = NewError(ErrUnauthenticated, "Not authorized, no token")
)
