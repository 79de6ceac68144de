package services

import (
	"context"
	"fmt"
	"log/slog"

	"minhasfinancas/internal/core"
	applog "minhasfinancas/internal/log"
	"minhasfinancas/internal/ports"
)

// AuthService verifies credentials and registers users.
type AuthService struct {
	users ports.UserDirectory
}

func NewAuthService(users ports.UserDirectory) *AuthService {
	return &AuthService{users: users}
}

// Authenticate returns the user owning email when password matches.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (core.User, error) {
	u, ok, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return core.User{}, fmt.Errorf("find user by email: %w", err)
	}
	if !ok {
		slog.InfoContext(ctx, "Authentication rejected", "reason", "user_not_found")
		return core.User{}, core.ErrUserNotFound
	}
	// TODO: passwords are stored and compared in plain text; replace with a
	// salted hash (bcrypt or argon2id) and a constant-time comparison.
	if u.Password != password {
		slog.InfoContext(ctx, "Authentication rejected", "reason", "invalid_password", applog.FieldUserID, u.ID)
		return core.User{}, core.ErrInvalidPassword
	}
	return u, nil
}

// Register stores u unless its email is already taken.
func (s *AuthService) Register(ctx context.Context, u core.User) (core.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, u.Email)
	if err != nil {
		return core.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return core.User{}, core.ErrEmailTaken
	}

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		return core.User{}, fmt.Errorf("save user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", applog.FieldComponent, applog.ComponentAuth, applog.FieldUserID, saved.ID)
	return saved, nil
}

// FindByID reports a missing user with ok=false rather than an error.
func (s *AuthService) FindByID(ctx context.Context, id int64) (core.User, bool, error) {
	u, ok, err := s.users.FindByID(ctx, id)
	if err != nil {
		return core.User{}, false, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, ok, nil
}
