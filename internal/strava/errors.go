package strava

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnauthorized means the access token was rejected (HTTP 401). The
// client never refreshes tokens itself; the caller decides whether to
// re-authenticate.
var ErrUnauthorized = errors.New("your session expired - please reconnect with Strava")

// ErrForbidden means the token lacks the required scope (HTTP 403)
var ErrForbidden = errors.New("Strava denied access - the app is missing the activity:read_all scope")

// ErrMalformedResponse means Strava answered with a success status but
// an undecodable body
var ErrMalformedResponse = errors.New("Strava returned an unreadable response")

// APIError is any other non-success response, with the status code and
// best-effort provider message preserved.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Strava returned an unexpected error (status %d): %s", e.StatusCode, e.Message)
}

// fault is Strava's error envelope
type fault struct {
	Message string `json:"message"`
}

// classifyStatus maps a non-success response to the error the caller
// acts on
func classifyStatus(status int, body []byte) error {
	switch status {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	}

	msg := string(body)
	var f fault
	if err := json.Unmarshal(body, &f); err == nil && f.Message != "" {
		msg = f.Message
	}
	return &APIError{StatusCode: status, Message: msg}
}
