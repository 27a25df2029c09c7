package auth

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// ErrNotAuthenticated means there are no usable tokens; the user must
// go through the connect flow again.
var ErrNotAuthenticated = errors.New("not authenticated - please reconnect with Strava")

// ErrAccessDenied means the user declined authorization on the
// provider's consent page.
var ErrAccessDenied = errors.New("you declined authorization")

// ExchangeError is a provider rejection of an authorization code.
// Codes are single-use, so this is never retried.
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange rejected (status %d): %s", e.StatusCode, e.Body)
}

// RefreshError is a provider rejection of a refresh token. The same
// refresh token is never retried after this.
type RefreshError struct {
	StatusCode int
	Body       string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected (status %d): %s", e.StatusCode, e.Body)
}

// providerStatus pulls the HTTP status and body out of an oauth2
// transport error, when present.
func providerStatus(err error) (int, string, bool) {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		status := 0
		if rerr.Response != nil {
			status = rerr.Response.StatusCode
		}
		return status, string(rerr.Body), true
	}
	return 0, "", false
}
