// Package user
package user

import (
	"context"

	"sessionbook/internal/domain"
)

type Service struct {
	repo domain.UserRepository
}

func NewService(repo domain.UserRepository) domain.UserService {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID int64) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, userID)
}
