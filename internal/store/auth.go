package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Record keys. Each holds one serialized blob; absence of a key is a
// normal state, not corruption.
const (
	keyCredentials = "credentials"
	keyTokens      = "tokens"
)

// Credentials holds the Strava API client identity
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenPair is the current authorization to call the Strava API.
// Exactly one pair is stored at a time; saving replaces the old pair
// wholesale.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// tokenBlob is the serialized form of TokenPair. ExpiresAt is stored
// as a unix timestamp, matching what Strava reports.
type tokenBlob struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// GetCredentials retrieves the stored client credentials
func (s *Store) GetCredentials() (*Credentials, error) {
	data, err := s.getValue(keyCredentials)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decoding credentials: %w", err)
	}
	return &creds, nil
}

// SaveCredentials stores or replaces the client credentials
func (s *Store) SaveCredentials(creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	return s.putValue(keyCredentials, data)
}

// GetTokens retrieves the stored token pair
func (s *Store) GetTokens() (*TokenPair, error) {
	data, err := s.getValue(keyTokens)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, err
	}

	var blob tokenBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("decoding tokens: %w", err)
	}
	return &TokenPair{
		AccessToken:  blob.AccessToken,
		RefreshToken: blob.RefreshToken,
		ExpiresAt:    time.Unix(blob.ExpiresAt, 0),
	}, nil
}

// SaveTokens stores or replaces the token pair
func (s *Store) SaveTokens(tokens *TokenPair) error {
	data, err := json.Marshal(tokenBlob{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("encoding tokens: %w", err)
	}
	return s.putValue(keyTokens, data)
}

// ClearTokens removes the stored token pair. Removing an absent pair
// is not an error.
func (s *Store) ClearTokens() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, keyTokens)
	return err
}

// ClearAll wipes both credentials and tokens (explicit disconnect)
func (s *Store) ClearAll() error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?)`, keyCredentials, keyTokens)
	return err
}

func (s *Store) getValue(key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) putValue(key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, data)
	return err
}
