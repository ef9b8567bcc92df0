package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies ledger and registry failures into stable categories
// that calling layers can map to response codes.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindInvalidAction   ErrorKind = "invalid_action"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindConflict        ErrorKind = "conflict"
	KindSinkUnavailable ErrorKind = "sink_unavailable"
)

// Error is a structured domain error carrying the offending field when known.
type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newNotFound(field, message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Field: field}
}

func newInvalidAction(field, message string) *Error {
	return &Error{Kind: KindInvalidAction, Message: message, Field: field}
}

func newUnauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func newConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func errorKind(err error) (ErrorKind, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return "", false
}

// IsNotFound reports whether err is a missing-reference failure.
func IsNotFound(err error) bool {
	kind, ok := errorKind(err)
	return ok && kind == KindNotFound
}

// IsInvalidAction reports whether err is a malformed action/target combination.
func IsInvalidAction(err error) bool {
	kind, ok := errorKind(err)
	return ok && kind == KindInvalidAction
}

// IsUnauthorized reports whether err is a permission denial.
func IsUnauthorized(err error) bool {
	kind, ok := errorKind(err)
	return ok && kind == KindUnauthorized
}

// IsConflict reports whether err is an unresolved concurrent-append failure.
func IsConflict(err error) bool {
	kind, ok := errorKind(err)
	return ok && kind == KindConflict
}
