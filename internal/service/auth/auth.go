package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/propconnect/propconnect/internal/model"
	"github.com/propconnect/propconnect/pkg/password"
	"github.com/propconnect/propconnect/pkg/token"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginRequest struct {
	Email    string
	Password string
}

// Session is a signed token plus the account it belongs to.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (Session, error)
	Login(ctx context.Context, req LoginRequest) (Session, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	db     *gorm.DB
	tokens *token.Manager
}

func New(db *gorm.DB, tokens *token.Manager) Service {
	return &authService{db: db, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	email := normalizeEmail(req.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return Session{}, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return Session{}, ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = "tenant"
	}
	user := model.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	return s.newSession(user)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (Session, error) {
	email := normalizeEmail(req.Email)

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find user: %w", err)
	}

	if err := password.Verify(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("verify password: %w", err)
	}

	return s.newSession(user)
}

func (s *authService) newSession(user model.User) (Session, error) {
	signed, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: signed, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
