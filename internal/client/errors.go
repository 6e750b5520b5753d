package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidBaseURL  = errors.New("invalid base URL")
	ErrNetwork         = errors.New("network error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrRateLimited     = errors.New("rate limited")
	ErrBadRequest      = errors.New("bad request")
	ErrUpstreamFailure = errors.New("upstream failure")
)

// networkErrorMessage is stored on a container when no response was received.
const networkErrorMessage = "Network Error"

// APIError is a non-2xx response from the backend. Detail holds the server-supplied
// explanation, empty when the body carried none.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Unwrap maps the status code onto a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrUpstreamFailure
	case e.StatusCode >= 400:
		return ErrBadRequest
	}
	return nil
}

// errorBody covers the shapes the backend uses for error payloads.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   json.RawMessage `json:"error"`
	Message json.RawMessage `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Detail: extractDetail(body)}
}

// extractDetail pulls the first non-empty explanation out of an error body.
// Non-string values (validation maps, lists) are kept in their JSON form.
func extractDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{eb.Detail, eb.Error, eb.Message} {
		if s := rawText(raw); s != "" {
			return s
		}
	}
	return ""
}

func rawText(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}

// Message renders err as the text stored in a container's error field:
// the server detail when present, the HTTP status otherwise, "Network Error"
// when nothing came back.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fmt.Sprintf("Request failed with status code %d", apiErr.StatusCode)
	}
	if errors.Is(err, ErrNetwork) {
		return networkErrorMessage
	}
	return err.Error()
}
