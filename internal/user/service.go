package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/verdantlabs/verdant/internal/apperr"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// Service manages account lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a customer account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if !emailPattern.MatchString(email) {
		return User{}, apperr.New(apperr.CodeValidation, "invalid email format")
	}
	if strings.TrimSpace(creds.Name) == "" {
		return User{}, apperr.New(apperr.CodeValidation, "name is required")
	}
	if len(creds.Password) < minPasswordLength {
		return User{}, apperr.New(apperr.CodeValidation, "password must be at least 6 characters long")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, apperr.New(apperr.CodeValidation, "user already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, apperr.Wrap(apperr.CodeDependency, "lookup user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(creds.Name),
		Email:        email,
		Role:         RoleCustomer,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, apperr.Wrap(apperr.CodeDependency, "create user", err)
	}

	return user, nil
}

// Authenticate verifies an email/password pair against the stored hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.New(apperr.CodeBadCredentials, "invalid email or password")
		}
		return User{}, apperr.Wrap(apperr.CodeDependency, "lookup user", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, apperr.New(apperr.CodeBadCredentials, "invalid email or password")
	}

	return user, nil
}

// GetByID fetches a user by ID.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, apperr.New(apperr.CodeUserNotFound, "user not found")
		}
		return User{}, apperr.Wrap(apperr.CodeDependency, "lookup user", err)
	}
	return user, nil
}

// Count returns the number of registered users for the analytics overview.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
