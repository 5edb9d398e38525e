package gateway

import (
	"errors"
	"net/http"
	"strings"
)

// ErrorKind is the failure taxonomy the handlers react to.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindTransport
	KindValidation
	KindAuthorization
	KindRejection
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	default:
		return "rejection"
	}
}

func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return KindTransport
	}
	switch apiErr.Status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuthorization
	default:
		return KindRejection
	}
}

// StatusOf returns the HTTP status of an API error, 0 otherwise.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the API's error text, or err.Error() for other failures.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsSessionRejected reports the 401/404 answers that mean the session token
// is no longer valid on a session-bound call.
func IsSessionRejected(err error) bool {
	status := StatusOf(err)
	return status == http.StatusUnauthorized || status == http.StatusNotFound
}

// HasMessage reports whether the API error text contains fragment.
func HasMessage(err error, fragment string) bool {
	return strings.Contains(MessageOf(err), fragment)
}
