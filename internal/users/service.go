package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-builder/internal/resumes"
)

// TokenIssuer signs credentials for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// ResumeLister lists the resumes owned by a user.
type ResumeLister interface {
	List(ctx context.Context, userID string) ([]resumes.Resume, error)
}

// RegisterInput is the payload for creating a password account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the payload for password sign-in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Service struct {
	Repo    Repo
	Tokens  TokenIssuer
	Resumes ResumeLister

	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repo, tokens TokenIssuer, resumes ResumeLister) *Service {
	return &Service{
		Repo:     repo,
		Tokens:   tokens,
		Resumes:  resumes,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a password account and returns it with a fresh credential.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := s.validate.Struct(input); err != nil {
		return User{}, "", err
	}

	if _, err := s.Repo.GetByEmail(ctx, input.Email); err == nil {
		return User{}, "", ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, "", fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Login verifies a password and returns the account with a fresh credential.
func (s *Service) Login(ctx context.Context, input LoginInput) (User, string, error) {
	input.Email = normalizeEmail(input.Email)
	if err := s.validate.Struct(input); err != nil {
		return User{}, "", err
	}

	user, err := s.Repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidLogin
		}
		return User{}, "", err
	}
	if user.PasswordHash == "" {
		return User{}, "", ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return User{}, "", ErrInvalidLogin
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// SignInExternal finds the account keyed by provider and subject, creating it on first sign-in.
// An email already held by a different account is never merged into; ErrIdentityConflict is returned instead.
func (s *Service) SignInExternal(ctx context.Context, provider, subject, email, name string) (User, string, error) {
	email = normalizeEmail(email)
	if strings.TrimSpace(provider) == "" || strings.TrimSpace(subject) == "" || email == "" {
		return User{}, "", errors.New("external identity requires provider, subject and email")
	}

	id := provider + ":" + subject
	user, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		user, err = s.createExternal(ctx, id, email, name)
	}
	if err != nil {
		return User{}, "", err
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

func (s *Service) createExternal(ctx context.Context, id, email, name string) (User, error) {
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrIdentityConflict
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	now := s.now()
	user := User{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, ErrIdentityConflict
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// ListResumes returns the caller's resumes.
func (s *Service) ListResumes(ctx context.Context, userID string) ([]resumes.Resume, error) {
	if s.Resumes == nil {
		return nil, errors.New("resume store not configured")
	}
	return s.Resumes.List(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
