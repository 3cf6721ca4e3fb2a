package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anvaya/anvaya-go/internal/crypto"
	"github.com/anvaya/anvaya-go/internal/model"
	"github.com/anvaya/anvaya-go/internal/repository"
)

// UserStore is the persistence AuthService depends on.
type UserStore interface {
	GetByEmailAndRole(ctx context.Context, email string, role model.Role) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// AuthService handles authentication business logic.
type AuthService struct {
	users     UserStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Login authenticates a user within the requested role and returns a signed
// token. An unknown email, a wrong password and a role mismatch all yield
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		if failedFields(err)["Role"] {
			return model.AuthResponse{}, invalid(MsgRoleRequired)
		}
		return model.AuthResponse{}, invalid(MsgCredentialsRequired)
	}

	role := model.Role(req.Role)
	if !role.Valid() {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmailAndRole(ctx, req.Email, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		slog.Warn("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return model.AuthResponse{}, ErrInvalidCredentials
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	s.upgradeHash(ctx, user, req.Password)

	token, err := crypto.GenerateToken(user.ID, string(user.Role), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Success: true,
		Token:   token,
		User:    user.ToResponse(),
	}, nil
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return user.ToResponse(), nil
}

// upgradeHash re-hashes the password with the current parameters when the
// stored hash was produced with older ones. Failures only cost a log line.
func (s *AuthService) upgradeHash(ctx context.Context, user *model.User, password string) {
	if !crypto.NeedsRehash(user.PasswordHash, crypto.DefaultHashParams()) {
		return
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		slog.Warn("password rehash not stored", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
}
