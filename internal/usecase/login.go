package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dailyquest/dq/internal/domain"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// LoginInput contains the credentials to exchange for a token.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput contains the result of a login.
type LoginOutput struct {
	User *domain.User // nil when the profile could not be fetched
}

// Login is the use case for signing in.
type Login struct {
	auth   domain.Authenticator
	users  domain.UserBackend
	tokens domain.TokenStore
	logger domain.Logger
}

// NewLogin creates a new Login use case.
func NewLogin(auth domain.Authenticator, users domain.UserBackend, tokens domain.TokenStore, logger domain.Logger) *Login {
	return &Login{
		auth:   auth,
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Execute exchanges the credentials, saves the token and fetches the profile.
func (uc *Login) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, domain.NewValidationError("username", "username is required")
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("password", "password is required")
	}

	tok, err := uc.auth.Login(ctx, strings.TrimSpace(in.Username), in.Password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := uc.tokens.Save(tok); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}

	out := &LoginOutput{}
	if user, err := uc.users.CurrentUser(ctx); err == nil {
		out.User = &user
	} else if uc.logger != nil {
		uc.logger.Warn("", "auth", fmt.Sprintf("fetch profile after login: %v", err))
	}
	if uc.logger != nil {
		uc.logger.Info("", "auth", "logged in as "+in.Username)
	}
	return out, nil
}

// LogoutInput contains the parameters for signing out.
type LogoutInput struct{}

// LogoutOutput contains the result of signing out.
type LogoutOutput struct{}

// Logout is the use case for signing out.
type Logout struct {
	tokens domain.TokenStore
	logger domain.Logger
}

// NewLogout creates a new Logout use case.
func NewLogout(tokens domain.TokenStore, logger domain.Logger) *Logout {
	return &Logout{tokens: tokens, logger: logger}
}

// Execute drops the saved token. Logging out twice is not an error.
func (uc *Logout) Execute(_ context.Context, _ LogoutInput) (*LogoutOutput, error) {
	if err := uc.tokens.Clear(); err != nil {
		return nil, fmt.Errorf("logout: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info("", "auth", "logged out")
	}
	return &LogoutOutput{}, nil
}

// RegisterInput contains the fields for a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RegisterOutput contains the created account.
type RegisterOutput struct {
	User domain.User
}

// Register is the use case for creating an account.
type Register struct {
	users  domain.UserBackend
	logger domain.Logger
}

// NewRegister creates a new Register use case.
func NewRegister(users domain.UserBackend, logger domain.Logger) *Register {
	return &Register{users: users, logger: logger}
}

// Execute validates the fields locally and creates the account.
func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	req := domain.RegisterRequest{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}
	if req.Username == "" {
		return nil, domain.NewValidationError("username", "username is required")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, domain.NewValidationError("email", "must be a valid email address")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	user, err := uc.users.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if uc.logger != nil {
		uc.logger.Info("", "auth", "registered "+user.Username)
	}
	return &RegisterOutput{User: user}, nil
}
