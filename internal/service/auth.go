// Package service — authentication business logic.
//
// AuthService sits between the HTTP handlers and the repository/auth
// utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT) / PasswordService (bcrypt)
//
// Two ways to establish a session: email/password credentials, and GitHub
// OAuth. Both end the same way — a local user record and a signed session
// token the handler wraps in a cookie.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// MinPasswordLength is deliberately modest; length requirements beyond this
// push users toward password reuse, not better passwords.
const MinPasswordLength = 6

// AuthService handles sign-up, sign-in, and session issuance.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// SignUp registers a new credentials account.
// A duplicate email surfaces as Conflict — the UNIQUE constraint in the
// users table is the authoritative check, not a racy pre-SELECT.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", slog.String("id", user.ID))
	return user, nil
}

// SignIn verifies credentials and issues a session token.
//
// Every failure path — unknown email, OAuth-only account, wrong password —
// returns the SAME Unauthorized message, so a caller can't enumerate which
// emails have accounts.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", apperror.Unauthorized("invalid email or password")
	}

	// OAuth-only accounts have no password hash; they must sign in via OAuth.
	if user.PasswordHash == "" {
		return nil, "", apperror.Unauthorized("invalid email or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, "", apperror.Unauthorized("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user signed in", slog.String("id", user.ID))
	return user, token, nil
}

// SignInWithGitHub completes the OAuth callback: upsert a local account
// keyed on the GitHub email, then issue a session token.
//
// A hidden GitHub email is a hard stop — email is our account key, and
// provisioning an account we could never match on a later sign-in would
// strand the user with duplicates.
func (s *AuthService) SignInWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*model.User, string, error) {
	if ghUser.Email == "" {
		return nil, "", apperror.ValidationFailed("email",
			"your GitHub email is private; make it public or sign up with a password")
	}

	email := strings.ToLower(ghUser.Email)

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		// Existing account — refresh the profile fields GitHub owns.
		user.Name = ghUser.DisplayName()
		user.Avatar = ghUser.AvatarURL
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, "", fmt.Errorf("updating user from GitHub profile: %w", err)
		}
	case errors.Is(err, apperror.ErrNotFound):
		// First sign-in — provision an OAuth-only account (empty hash).
		user = &model.User{
			Name:   ghUser.DisplayName(),
			Email:  email,
			Avatar: ghUser.AvatarURL,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, "", err
		}
		s.logger.Info("user provisioned via GitHub", slog.String("id", user.ID))
	default:
		return nil, "", fmt.Errorf("looking up user %s: %w", email, err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUser fetches a user record for profile display.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *AuthService) issueToken(user *model.User) (string, error) {
	token, err := s.tokens.Generate(auth.Session{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return "", fmt.Errorf("issuing session token: %w", err)
	}
	return token, nil
}
