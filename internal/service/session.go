package service

import (
	"context"
	"fmt"
	"sync"

	"strava-yearly/internal/stats"
	"strava-yearly/internal/strava"
)

// TokenSource yields an access token valid for the next call
type TokenSource interface {
	GetValidAccessToken(ctx context.Context) (string, error)
}

// Fetcher retrieves the complete activity history
type Fetcher interface {
	FetchAll(ctx context.Context, accessToken string, onPage func(page, fetched int)) ([]strava.Activity, error)
}

// CredentialStore is the slice of the store a disconnect needs
type CredentialStore interface {
	ClearAll() error
}

// SyncProgress reports progress during a sync, one event per fetched
// page.
type SyncProgress struct {
	Page    int
	Fetched int
}

// Session owns the live state of one connected user: the in-memory
// activity set and the means to replace it. Activities are never
// persisted; each sync replaces the set wholesale and views recompute
// from it.
type Session struct {
	tokens TokenSource
	client Fetcher
	creds  CredentialStore

	mu         sync.Mutex
	activities []strava.Activity
}

// NewSession creates a Session with no activities loaded
func NewSession(tokens TokenSource, client Fetcher, creds CredentialStore) *Session {
	return &Session{
		tokens: tokens,
		client: client,
		creds:  creds,
	}
}

// Sync fetches the full activity history and replaces the session's
// activity set. Token validation completes before the first page is
// requested; the fetch itself never refreshes tokens. On any failure
// the previous set is kept untouched.
func (s *Session) Sync(ctx context.Context, progress chan<- SyncProgress) (int, error) {
	if progress != nil {
		defer close(progress)
	}

	token, err := s.tokens.GetValidAccessToken(ctx)
	if err != nil {
		return 0, err
	}

	var onPage func(page, fetched int)
	if progress != nil {
		onPage = func(page, fetched int) {
			progress <- SyncProgress{Page: page, Fetched: fetched}
		}
	}

	activities, err := s.client.FetchAll(ctx, token, onPage)
	if err != nil {
		return 0, fmt.Errorf("fetching activities: %w", err)
	}

	s.mu.Lock()
	s.activities = activities
	s.mu.Unlock()

	return len(activities), nil
}

// Activities returns the current in-memory activity set
func (s *Session) Activities() []strava.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activities
}

// SportYearlyStats recomputes per-sport yearly totals from the
// current activity set
func (s *Session) SportYearlyStats() []stats.SportYearlyStats {
	return stats.ComputeSportYearlyStats(s.Activities())
}

// Sports lists the distinct sports in first-occurrence order
func (s *Session) Sports() []string {
	_, sports := stats.GroupBySport(s.Activities())
	return sports
}

// Disconnect wipes stored credentials and tokens and drops the
// in-memory activity set
func (s *Session) Disconnect() error {
	if err := s.creds.ClearAll(); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}

	s.mu.Lock()
	s.activities = nil
	s.mu.Unlock()

	return nil
}
