// Package auth provides the account boundary around the task core: local
// registration, credential login with JWT issuance, and the identity lookup
// the report engine needs. Email verification delivery and OAuth token
// exchange live outside this service; accounts created through a social
// provider are recorded with their provider name only.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	domain "github.com/example/todo-backend/domain/user"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrMissingUsername is returned when registration lacks a username.
	ErrMissingUsername = errors.New("username is required")
	// ErrWeakPassword is returned when password is too weak.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
)

// Service handles account business logic.
type Service struct {
	repo   *UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewService creates a new auth service.
func NewService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new local user account.
func (s *Service) Register(_ context.Context, username, email, password string) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if username == "" {
		return nil, ErrMissingUsername
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	taken, err := s.repo.IdentityTaken(email, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check identity: %w", err)
	}
	if taken {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		AuthProvider: domain.ProviderEmail,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns a signed access token.
func (s *Service) Login(_ context.Context, email, password string) (string, int64, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", 0, ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(user.ID, user.Email, user.Username)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, s.jwt.TokenDuration(), nil
}

// ValidateToken validates an access token and returns its claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*Claims, error) {
	return s.jwt.Validate(token)
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(_ context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(userID)
}

// AccountCreatedAt resolves the account creation time for the average
// completed report.
func (s *Service) AccountCreatedAt(ctx context.Context, userID string) (time.Time, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}
	return user.CreatedAt, nil
}
