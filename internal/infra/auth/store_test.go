package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Username: "ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token.json"))

	_, err := store.Load()

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "dq", "token.json")
	store := NewFileStore(path)
	exp := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	access := signedToken(t, exp)

	// Execute
	require.NoError(t, store.Save(domain.Token{AccessToken: access, TokenType: "bearer"}))
	tok, err := store.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, access, tok.AccessToken)
	assert.True(t, tok.Expiry.Equal(exp), "expiry comes from the exp claim")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestFileStore_OpaqueToken(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "token.json"))

	require.NoError(t, store.Save(domain.Token{AccessToken: "not-a-jwt", TokenType: "bearer"}))
	tok, err := store.Load()

	require.NoError(t, err)
	assert.True(t, tok.Expiry.IsZero())
	assert.True(t, tok.Valid(time.Now()))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := NewFileStore(path).Load()

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)

	claims, err := ParseClaims(signedToken(t, exp))

	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "u-1", claims.Subject)
	assert.True(t, Expiry(signedToken(t, exp)).Equal(exp))

	_, err = ParseClaims("garbage")
	assert.Error(t, err)
}
