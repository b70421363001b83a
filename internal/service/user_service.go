package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"quizbank/internal/auth"
	"quizbank/internal/domain"
	"quizbank/internal/repository"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserService describes account lifecycle operations.
type UserService interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	GetProfile(ctx context.Context, id string) (*domain.User, error)
	UpdateProfilePicture(ctx context.Context, id, location string) (*domain.User, error)
}

type userService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenService) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
	}
}

// Register validates the request, rejects duplicate emails and stores the
// account with a hashed password. No token is issued; clients log in
// separately.
func (s *userService) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if n := utf8.RuneCountInString(name); n < 3 || n > 30 {
		return validationErr("Name must be between 3 and 30 characters")
	}
	if !emailPattern.MatchString(email) {
		return validationErr("Please enter a valid email address")
	}
	if len(password) < 6 {
		return validationErr("Password must be at least 6 characters")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration can win between the lookup and the
		// insert; the unique index makes that a conflict, not a failure
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// Login verifies the credentials and returns a session token for the account.
func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	if !emailPattern.MatchString(email) {
		return "", validationErr("Please enter a valid email address")
	}
	if password == "" {
		return "", validationErr("Password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *userService) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfilePicture(ctx context.Context, id, location string) (*domain.User, error) {
	user, err := s.users.UpdateProfilePicture(ctx, id, location)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sanitizeUser strips the password hash before the user leaves the service
// layer.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
