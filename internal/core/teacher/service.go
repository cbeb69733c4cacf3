// Package teacher
package teacher

import (
	"context"
	"strconv"
	"time"

	"sessionbook/internal/domain"
	"sessionbook/internal/logger"

	"golang.org/x/sync/singleflight"
)

const cacheTTL = 5 * time.Minute

// Cache is the subset of the redis adapter the catalog needs. A nil Cache
// disables caching entirely.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	repo  domain.TeacherRepository
	cache Cache
	log   logger.Logger
	group singleflight.Group
}

func NewService(repo domain.TeacherRepository, cache Cache, log logger.Logger) domain.TeacherService {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *Service) List(ctx context.Context) ([]*domain.Teacher, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}

	var cached []*domain.Teacher
	if hit, err := s.cache.GetJSON(ctx, "teachers", &cached); err == nil && hit {
		return cached, nil
	}

	// Collapse concurrent misses into a single repository query.
	v, err, _ := s.group.Do("teachers", func() (any, error) {
		teachers, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}

		if err := s.cache.SetJSON(ctx, "teachers", teachers, cacheTTL); err != nil {
			s.log.Debug("teacher cache: set failed", "key", "teachers", "error", err)
		}

		return teachers, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]*domain.Teacher), nil
}

func (s *Service) GetByID(ctx context.Context, teacherID int64) (*domain.Teacher, error) {
	if s.cache == nil {
		return s.repo.GetByID(ctx, teacherID)
	}

	key := "teachers:" + strconv.FormatInt(teacherID, 10)

	var cached domain.Teacher
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		teacher, err := s.repo.GetByID(ctx, teacherID)
		if err != nil {
			return nil, err
		}

		if err := s.cache.SetJSON(ctx, key, teacher, cacheTTL); err != nil {
			s.log.Debug("teacher cache: set failed", "key", key, "error", err)
		}

		return teacher, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Teacher), nil
}
