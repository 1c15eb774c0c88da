// Package auth persists the backend bearer token between invocations.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Ensure FileStore implements domain.TokenStore.
var _ domain.TokenStore = (*FileStore)(nil)

// Claims are the fields dq reads from the access token. The signature is
// never checked; the backend does that.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the claims of a JWT access token without verifying it.
func ParseClaims(accessToken string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	return claims, nil
}

// Expiry returns the token's exp claim, or the zero time if the token is
// not a JWT or carries no expiry.
func Expiry(accessToken string) time.Time {
	claims, err := ParseClaims(accessToken)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// FileStore keeps the token in a JSON file with mode 0600.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the token file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the saved token, or domain.ErrUnauthorized if there is none.
func (s *FileStore) Load() (domain.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Token{}, domain.ErrUnauthorized
		}
		return domain.Token{}, fmt.Errorf("read token: %w", err)
	}

	var tok domain.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return domain.Token{}, fmt.Errorf("invalid token file %s: %w", s.path, err)
	}
	if tok.AccessToken == "" {
		return domain.Token{}, domain.ErrUnauthorized
	}
	return tok, nil
}

// Save writes the token. A missing expiry is filled from the JWT exp claim.
func (s *FileStore) Save(tok domain.Token) error {
	if tok.Expiry.IsZero() {
		tok.Expiry = Expiry(tok.AccessToken)
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear deletes the token. Clearing a missing token is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
