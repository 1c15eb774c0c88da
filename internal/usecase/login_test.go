package usecase

import (
	"context"
	"testing"

	"github.com/dailyquest/dq/internal/domain"
	"github.com/dailyquest/dq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Execute(t *testing.T) {
	// Setup
	backend := testutil.NewFakeBackend()
	tokens := &testutil.MockTokenStore{}
	uc := NewLogin(backend, backend, tokens, &testutil.MockLogger{})

	// Execute
	out, err := uc.Execute(context.Background(), LoginInput{Username: " tester ", Password: "secret"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "fake-token", tokens.Token.AccessToken)
	assert.Equal(t, 1, tokens.Saves)
	require.NotNil(t, out.User)
	assert.Equal(t, "tester", out.User.Username)
}

func TestLogin_Execute_Rejected(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.LoginErr = &domain.Error{Kind: domain.KindUnauthorized, Status: 401, Message: "invalid username or password"}
	tokens := &testutil.MockTokenStore{}
	uc := NewLogin(backend, backend, tokens, nil)

	_, err := uc.Execute(context.Background(), LoginInput{Username: "tester", Password: "wrong"})

	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, tokens.Saves)
}

func TestLogin_Execute_MissingFields(t *testing.T) {
	backend := testutil.NewFakeBackend()
	uc := NewLogin(backend, backend, &testutil.MockTokenStore{}, nil)

	_, err := uc.Execute(context.Background(), LoginInput{Username: "", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Execute(context.Background(), LoginInput{Username: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, backend.TotalCalls())
}

func TestLogin_Execute_ProfileUnavailable(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.UserErr = domain.ErrBackend
	logger := &testutil.MockLogger{}
	uc := NewLogin(backend, backend, &testutil.MockTokenStore{}, logger)

	out, err := uc.Execute(context.Background(), LoginInput{Username: "tester", Password: "secret"})

	require.NoError(t, err)
	assert.Nil(t, out.User)
	assert.Equal(t, 1, logger.Count("WARN"))
}

func TestLogout_Execute(t *testing.T) {
	tokens := &testutil.MockTokenStore{Token: domain.Token{AccessToken: "abc"}}

	_, err := NewLogout(tokens, nil).Execute(context.Background(), LogoutInput{})

	require.NoError(t, err)
	assert.True(t, tokens.Cleared)
	_, err = tokens.Load()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_Execute(t *testing.T) {
	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"ok", RegisterInput{Username: "ana", Email: "ana@example.com", Password: "secret1"}, ""},
		{"no username", RegisterInput{Email: "ana@example.com", Password: "secret1"}, "username"},
		{"bad email", RegisterInput{Username: "ana", Email: "ana", Password: "secret1"}, "email"},
		{"short password", RegisterInput{Username: "ana", Email: "ana@example.com", Password: "abc"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend()
			out, err := NewRegister(backend, nil).Execute(context.Background(), tt.in)

			if tt.field == "" {
				require.NoError(t, err)
				assert.Equal(t, "ana", out.User.Username)
				assert.Equal(t, 1, out.User.Level)
				return
			}
			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
			assert.Zero(t, backend.TotalCalls())
		})
	}
}

func TestShowProfile_Execute(t *testing.T) {
	// Setup
	backend := testutil.NewFakeBackend()
	backend.User.XP = 245
	backend.User.Level = 3
	backend.Stats = domain.DashboardStats{TotalXP: 245, CurrentStreak: 4}
	uc := NewShowProfile(backend, backend, nil)

	// Execute
	out, err := uc.Execute(context.Background(), ShowProfileInput{WithStats: true})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 45, out.Progress.CurrentLevelXP)
	assert.InDelta(t, 45.0, out.Progress.Percentage, 0.001)
	assert.Equal(t, 55, out.ToNext)
	require.NotNil(t, out.Stats)
	assert.Equal(t, 4, out.Stats.CurrentStreak)
}

func TestShowProfile_Execute_StatsBestEffort(t *testing.T) {
	backend := testutil.NewFakeBackend()
	backend.StatsErr = domain.ErrBackend
	uc := NewShowProfile(backend, backend, &testutil.MockLogger{})

	out, err := uc.Execute(context.Background(), ShowProfileInput{WithStats: true})

	require.NoError(t, err)
	assert.Nil(t, out.Stats)
}
