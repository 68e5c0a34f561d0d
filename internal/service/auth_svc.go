package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/campus-market/internal/domain"
	"github.com/you/campus-market/pkg/auth"
)

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type AuthSvc struct {
	users    UserStore
	tokenTTL time.Duration
}

func NewAuthSvc(users UserStore, tokenTTL time.Duration) *AuthSvc {
	return &AuthSvc{users: users, tokenTTL: tokenTTL}
}

func (s *AuthSvc) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login never says whether the email or the password was wrong.
func (s *AuthSvc) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}
	return auth.CreateAccessToken(u.ID, u.Name, u.Email, s.tokenTTL)
}

func (s *AuthSvc) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.ByID(ctx, userID)
}

func (s *AuthSvc) UpdateProfile(ctx context.Context, userID, name, picture string) (*domain.User, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		u.Name = name
	}
	if picture != "" {
		u.Picture = picture
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
