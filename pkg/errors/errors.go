package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error into the closed set of failure conditions the
// API reports. Every expected failure maps to exactly one kind; anything
// else is Internal.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindReferenceNotFound
	KindConflict
	KindInvalidTransition
	KindNotFound
	KindAggregation
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindReferenceNotFound:
		return "reference_not_found"
	case KindConflict:
		return "resource_conflict"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindNotFound:
		return "not_found"
	case KindAggregation:
		return "aggregation_failed"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal_error"
	}
}

// AppError carries a failure kind plus a human-readable detail.
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err if it is an AppError, KindInternal otherwise.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ReferenceNotFound(resource string, id int64) *AppError {
	return &AppError{
		Kind:    KindReferenceNotFound,
		Message: fmt.Sprintf("%s %d does not exist", resource, id),
	}
}

func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot transition appointment from %s to %s", from, to),
	}
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %d not found", resource, id),
	}
}

func Aggregation(err error) *AppError {
	return &AppError{
		Kind:    KindAggregation,
		Message: "failed to compute dashboard snapshot",
		Err:     err,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}
