package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes an application error so transport layers can map it to a
// status code without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthorization
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	default:
		return "internal"
	}
}

// Stable API codes pinned by engine errors. When set, transport layers
// surface these instead of the kind's generic code.
const (
	CodeEntryAlreadyOpen = "ENTRY_ALREADY_OPEN"
	CodeEntryNotOpen     = "ENTRY_NOT_OPEN"
	CodeReviewFinalized  = "REVIEW_FINALIZED"
)

// Error is a typed application error. Repositories translate storage failures
// into one of these; services add their own; handlers map Kind to HTTP.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithCode pins the stable API error code surfaced for this error.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// NotFound creates a not-found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Conflict creates a conflict error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Authorization creates an authorization error.
func Authorization(message string) *Error {
	return New(KindAuthorization, message)
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf extracts the kind from any error. Non-apperr errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// CodeOf extracts the pinned API code from any error, or "" when none is set.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
