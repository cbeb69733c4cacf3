// Package auth
package auth

import (
	"context"
	"errors"
	"fmt"

	"sessionbook/internal/core/token"
	"sessionbook/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo  domain.UserRepository
	codec *token.Codec
}

func NewService(repo domain.UserRepository, codec *token.Codec) domain.AuthService {
	return &Service{
		repo:  repo,
		codec: codec,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) error {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return domain.ErrEmailAlreadyExists
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		Email:     req.Email,
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Password:  string(hashedPwd),
	}

	return s.repo.Create(ctx, user)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	tokenString, err := s.codec.Issue(user.Email)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		AccessToken: tokenString,
		User:        user,
	}, nil
}

// ResolveByEmail loads the principal a verified token subject points at.
// domain.ErrUserNotFound is a normal outcome here: the subject may have been
// deleted after the token was issued.
func (s *Service) ResolveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, email)
}
