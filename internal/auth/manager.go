package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"strava-yearly/internal/store"
)

// RefreshMargin is how close to expiry a token may get before we
// refresh it. A full hour absorbs clock skew and in-flight request
// latency; Strava tokens live six hours.
const RefreshMargin = time.Hour

// TokenStore is the slice of the credential store the manager needs.
type TokenStore interface {
	GetTokens() (*store.TokenPair, error)
	SaveTokens(*store.TokenPair) error
	ClearTokens() error
}

// Manager owns the token lifecycle: authorization URL construction,
// code exchange, expiry detection, and refresh. It is the only
// component that decides when tokens are replaced or discarded.
type Manager struct {
	oauth *oauth2.Config
	store TokenStore
	now   func() time.Time
}

// NewManager creates a Manager for the given client credentials.
func NewManager(st TokenStore, cfg Config) *Manager {
	return &Manager{
		oauth: NewOAuthConfig(cfg),
		store: st,
		now:   time.Now,
	}
}

// AuthCodeURL builds the provider authorization URL. approval_prompt=auto
// skips the consent page when the user has already approved this app.
func (m *Manager) AuthCodeURL(state string) string {
	return m.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "auto"))
}

// ExchangeCode trades a one-time authorization code for a token pair.
// The code is consumed either way, so a failure is surfaced, never
// retried.
func (m *Manager) ExchangeCode(ctx context.Context, code string) (*store.TokenPair, error) {
	tok, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		if status, body, ok := providerStatus(err); ok {
			return nil, &ExchangeError{StatusCode: status, Body: body}
		}
		return nil, fmt.Errorf("exchanging code: %w", err)
	}
	return pairFromToken(tok), nil
}

// Refresh trades a refresh token for a new token pair. A rejected
// refresh token is dead; callers must discard it and reconnect.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (*store.TokenPair, error) {
	src := m.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		if status, body, ok := providerStatus(err); ok {
			return nil, &RefreshError{StatusCode: status, Body: body}
		}
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	return pairFromToken(tok), nil
}

// IsExpiringSoon reports whether the pair is due for refresh at the
// given instant. A token with exactly RefreshMargin remaining is not
// yet due.
func IsExpiringSoon(tokens *store.TokenPair, now time.Time) bool {
	return tokens.ExpiresAt.Sub(now) < RefreshMargin
}

// GetValidAccessToken returns an access token good for at least
// RefreshMargin, refreshing and persisting a new pair if needed.
// A failed refresh wipes stored tokens and reports ErrNotAuthenticated
// so the caller routes the user back to the connect flow instead of
// retrying.
func (m *Manager) GetValidAccessToken(ctx context.Context) (string, error) {
	tokens, err := m.store.GetTokens()
	if errors.Is(err, store.ErrNoAuth) {
		return "", ErrNotAuthenticated
	}
	if err != nil {
		return "", fmt.Errorf("loading tokens: %w", err)
	}

	if !IsExpiringSoon(tokens, m.now()) {
		return tokens.AccessToken, nil
	}

	fresh, err := m.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		// The old pair is unusable too; discard it together.
		if clearErr := m.store.ClearTokens(); clearErr != nil {
			return "", fmt.Errorf("clearing tokens after failed refresh: %w", clearErr)
		}
		return "", fmt.Errorf("%w (refresh failed: %v)", ErrNotAuthenticated, err)
	}

	if err := m.store.SaveTokens(fresh); err != nil {
		return "", fmt.Errorf("persisting refreshed tokens: %w", err)
	}

	return fresh.AccessToken, nil
}

func pairFromToken(tok *oauth2.Token) *store.TokenPair {
	return &store.TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
}
