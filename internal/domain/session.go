package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrAlreadyParticipating = errors.New("user already participates in session")
	ErrNotParticipating     = errors.New("user does not participate in session")
)

type Session struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	TeacherID   *int64    `json:"teacher_id"`
	Users       []int64   `json:"users"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasParticipant reports membership by identifier equality; the slice keeps
// insertion order but order carries no meaning.
func (s *Session) HasParticipant(userID int64) bool {
	for _, id := range s.Users {
		if id == userID {
			return true
		}
	}
	return false
}

type SessionSaveRequest struct {
	Name        string    `json:"name" validate:"required,max=50"`
	Date        time.Time `json:"date" validate:"required"`
	TeacherID   *int64    `json:"teacher_id"`
	Description string    `json:"description" validate:"required,max=2500"`
}

type SessionRepository interface {
	List(ctx context.Context) ([]*Session, error)
	GetByID(ctx context.Context, sessionID int64) (*Session, error)
	Create(ctx context.Context, session *Session) error
	Update(ctx context.Context, session *Session, sessionID int64) error
	Delete(ctx context.Context, sessionID int64) error

	// AddParticipant and RemoveParticipant apply a single membership delta
	// atomically and return the resulting participant set. Implementations
	// must serialize concurrent deltas per session id and surface
	// ErrAlreadyParticipating / ErrNotParticipating from the authoritative
	// stored set, not from a caller-side read.
	AddParticipant(ctx context.Context, sessionID, userID int64) ([]int64, error)
	RemoveParticipant(ctx context.Context, sessionID, userID int64) ([]int64, error)
}

type SessionService interface {
	List(ctx context.Context) ([]*Session, error)
	GetByID(ctx context.Context, sessionID int64) (*Session, error)
	Create(ctx context.Context, req SessionSaveRequest) (*Session, error)
	Update(ctx context.Context, req SessionSaveRequest, sessionID int64) (*Session, error)
	Delete(ctx context.Context, sessionID int64) error
	Participate(ctx context.Context, sessionID, userID int64) (*Session, error)
	Unparticipate(ctx context.Context, sessionID, userID int64) (*Session, error)
}
