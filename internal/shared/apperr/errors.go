// Package apperr defines the error taxonomy shared by the gateway and the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the response envelope.
type Kind string

const (
	KindQuotaExceeded       Kind = "quota_exceeded"
	KindPlanRequired        Kind = "plan_required"
	KindValidation          Kind = "validation_error"
	KindMissingFields       Kind = "missing_fields"
	KindProvider            Kind = "provider_error"
	KindProviderUnavailable Kind = "provider_unavailable"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindUnauthorized        Kind = "unauthorized"
	KindInternal            Kind = "internal_error"
)

const (
	MsgQuotaExceeded = "Limit reached.! Upgrade to continue."
	MsgPlanRequired  = "This feature is only available for premium subscriptions."
	MsgMissingFields = "Missing required fields"
	MsgUnauthorized  = "Not Authenticated"
)

// Error carries a Kind and a user-facing message, optionally wrapping a cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind so errors.Is(err, apperr.QuotaExceeded()) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Status is the HTTP status used for this kind. Most logical failures keep 200.
func (k Kind) Status() int {
	switch k {
	case KindProviderUnavailable:
		return http.StatusServiceUnavailable
	case KindMissingFields:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func QuotaExceeded() *Error {
	return &Error{Kind: KindQuotaExceeded, Message: MsgQuotaExceeded}
}

func PlanRequired() *Error {
	return &Error{Kind: KindPlanRequired, Message: MsgPlanRequired}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func MissingFields() *Error {
	return &Error{Kind: KindMissingFields, Message: MsgMissingFields}
}

func Provider(err error) *Error {
	msg := "provider request failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindProvider, Message: msg, Err: err}
}

func ProviderUnavailable(msg string) *Error {
	return &Error{Kind: KindProviderUnavailable, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgUnauthorized}
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
