package service

import (
	"context"
	"errors"
	"fmt"

	dom "todolist/internal/domain"
	"todolist/internal/repo"
	"todolist/internal/utils"

	"gorm.io/gorm"
)

var (
	ErrMissingFields      = errors.New("required fields missing")
	ErrEmailTaken         = errors.New("email already in use")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Firstname       string
	Lastname        string
	Email           string
	Password        string
	ConfirmPassword string
}

// UserService handles user auth logic.
type UserService struct {
	repo   repo.UserRepo
	hasher PasswordHasher
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo, hasher PasswordHasher) *UserService {
	return &UserService{repo: repo, hasher: hasher}
}

// Register creates a new user with a hashed password.
// Checks run in order: required fields, email uniqueness, password confirmation.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (dom.User, error) {
	if in.Firstname == "" || in.Lastname == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return dom.User{}, ErrMissingFields
	}

	_, err := s.repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return dom.User{}, ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return dom.User{}, fmt.Errorf("lookup email: %w", err)
	}

	if in.Password != in.ConfirmPassword {
		return dom.User{}, ErrPasswordMismatch
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return dom.User{}, err
	}
	u := dom.User{
		Email:        in.Email,
		PasswordHash: hash,
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
	}
	if err := s.repo.Create(ctx, &u); err != nil {
		// lost the race against a concurrent registration
		if utils.IsUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// ValidateCredentials checks email and password; returns user if valid.
// Unknown email, soft-deleted user and wrong password are the same ErrInvalidCredentials.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (dom.User, error) {
	if email == "" || password == "" {
		return dom.User{}, ErrMissingFields
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, fmt.Errorf("lookup email: %w", err)
	}
	if u.IsDeleted {
		return dom.User{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}
