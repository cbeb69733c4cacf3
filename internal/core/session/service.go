// Package session
package session

import (
	"context"

	"sessionbook/internal/domain"
)

type Service struct {
	sessions domain.SessionRepository
	users    domain.UserRepository
}

func NewService(sessions domain.SessionRepository, users domain.UserRepository) domain.SessionService {
	return &Service{
		sessions: sessions,
		users:    users,
	}
}

func (s *Service) List(ctx context.Context) ([]*domain.Session, error) {
	return s.sessions.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, sessionID int64) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, sessionID)
}

func (s *Service) Create(ctx context.Context, req domain.SessionSaveRequest) (*domain.Session, error) {
	data := &domain.Session{
		Name:        req.Name,
		Date:        req.Date,
		Description: req.Description,
		TeacherID:   req.TeacherID,
	}

	if err := s.sessions.Create(ctx, data); err != nil {
		return nil, err
	}

	return data, nil
}

func (s *Service) Update(ctx context.Context, req domain.SessionSaveRequest, sessionID int64) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Name = req.Name
	session.Date = req.Date
	session.Description = req.Description
	session.TeacherID = req.TeacherID

	if err := s.sessions.Update(ctx, session, sessionID); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *Service) Delete(ctx context.Context, sessionID int64) error {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return err
	}

	return s.sessions.Delete(ctx, sessionID)
}

// Participate adds userID to the session's participant set. The checks here
// run before any write; the repository re-checks membership under its own
// lock, so a concurrent enroll for the same user still resolves to exactly
// one success.
func (s *Service) Participate(ctx context.Context, sessionID, userID int64) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if session.HasParticipant(userID) {
		return nil, domain.ErrAlreadyParticipating
	}

	users, err := s.sessions.AddParticipant(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	session.Users = users

	return session, nil
}

func (s *Service) Unparticipate(ctx context.Context, sessionID, userID int64) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.HasParticipant(userID) {
		return nil, domain.ErrNotParticipating
	}

	users, err := s.sessions.RemoveParticipant(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	session.Users = users

	return session, nil
}
