package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed remote call the way the UI reports it.
type Kind string

const (
	// KindFetch is a failed collection load; the previous cache is retained.
	KindFetch Kind = "fetch_error"
	// KindSubmit is a rejected create/update; no local state is mutated.
	KindSubmit Kind = "submit_error"
	// KindDelete is a rejected delete; no local state is mutated.
	KindDelete Kind = "delete_error"
	// KindAuth is a 401/403 from any call.
	KindAuth Kind = "auth_error"
	// KindNotFound is a 404 for a single resource.
	KindNotFound Kind = "not_found"
	// KindValidation is a request the server rejected as invalid.
	KindValidation Kind = "validation_error"
)

// APIError is the failure surfaced to callers of the client. Every remote
// failure is converted to one of these; nothing propagates as a raw
// transport error.
type APIError struct {
	Kind     Kind
	Status   int
	Resource string
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Resource, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Kind)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or empty when err is not an APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsAuth(err error) bool     { return KindOf(err) == KindAuth }
func IsFetch(err error) bool    { return KindOf(err) == KindFetch }
func IsSubmit(err error) bool   { return KindOf(err) == KindSubmit }
func IsDelete(err error) bool   { return KindOf(err) == KindDelete }
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsForbidden reports a 403 specifically; admin screens surface a distinct
// "admin access required" message for it.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusForbidden
	}
	return false
}

func classify(method string, status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	}
	switch method {
	case http.MethodGet:
		return KindFetch
	case http.MethodDelete:
		return KindDelete
	default:
		return KindSubmit
	}
}
