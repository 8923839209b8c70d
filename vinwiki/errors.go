package vinwiki

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by the client.
type Kind int

const (
	// KindUnknown is never produced by the client itself
	KindUnknown Kind = iota
	// KindTransport indicates a network, timeout, redirect or HTTP status failure
	KindTransport
	// KindInvalidResponse indicates a body that is not the expected JSON envelope
	KindInvalidResponse
	// KindAuthenticationRejected indicates VINwiki refused the login
	KindAuthenticationRejected
	// KindRemoteStatus indicates a non-ok envelope status outside of login
	KindRemoteStatus
	// KindInvalidToken indicates a login response without a usable token
	KindInvalidToken
	// KindInvalidPerson indicates a login response without a usable person
	KindInvalidPerson
	// KindSessionRequired indicates an authenticated call without a session
	KindSessionRequired
	// KindPersonUnavailable indicates no default person identifier is available
	KindPersonUnavailable
	// KindValidation indicates caller input failed a local precondition
	KindValidation
	// KindHydration indicates a payload did not match its model schema
	KindHydration
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindInvalidResponse:
		return "invalid_response"
	case KindAuthenticationRejected:
		return "authentication_rejected"
	case KindRemoteStatus:
		return "remote_status"
	case KindInvalidToken:
		return "invalid_token"
	case KindInvalidPerson:
		return "invalid_person"
	case KindSessionRequired:
		return "session_required"
	case KindPersonUnavailable:
		return "person_unavailable"
	case KindValidation:
		return "validation"
	case KindHydration:
		return "hydration"
	default:
		return "unknown"
	}
}

// Sentinel errors for use with errors.Is. Matching compares the Kind only.
var (
	ErrTransport              = &Error{Kind: KindTransport, Message: "transport failure"}
	ErrInvalidResponse        = &Error{Kind: KindInvalidResponse, Message: "VINwiki returned an unknown response"}
	ErrAuthenticationRejected = &Error{Kind: KindAuthenticationRejected, Message: "VINwiki rejected the authorization"}
	ErrRemoteStatus           = &Error{Kind: KindRemoteStatus, Message: "VINwiki returned a non-ok status"}
	ErrInvalidToken           = &Error{Kind: KindInvalidToken, Message: "VINwiki provided an invalid authorization token"}
	ErrInvalidPerson          = &Error{Kind: KindInvalidPerson, Message: "VINwiki returned an invalid person"}
	ErrSessionRequired        = &Error{Kind: KindSessionRequired, Message: "an authenticated session is required"}
	ErrPersonUnavailable      = &Error{Kind: KindPersonUnavailable, Message: "no identifier provided and a default is not available"}
	ErrValidation             = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrHydration              = &Error{Kind: KindHydration, Message: "payload does not match model"}
)

// Error is the error type returned by every client operation.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("vinwiki: %s: %v", msg, e.Err)
	}
	return "vinwiki: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsSessionError reports whether the error concerns the session itself
// rather than a single call.
func (e *Error) IsSessionError() bool {
	return e.Kind == KindSessionRequired || e.Kind == KindPersonUnavailable
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// APIError represents a non-2xx HTTP response
type APIError struct {
	StatusCode int
	Status     string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("VINwiki API error: status %d", e.StatusCode)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// StatusError carries the detail of an envelope whose status was not "ok".
type StatusError struct {
	Status  string
	Message string
	Code    string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("status %q", e.Status)
	if e.Code != "" {
		msg += " code " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// FieldError describes a value that could not be assigned to a schema field.
type FieldError struct {
	Path     string
	Expected string
	Got      string
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Got)
}
