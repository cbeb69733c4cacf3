package domain

import (
	"context"
	"errors"
	"time"
)

var ErrTeacherNotFound = errors.New("teacher not found")

type Teacher struct {
	ID        int64     `json:"id"`
	LastName  string    `json:"lastName"`
	FirstName string    `json:"firstName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TeacherRepository interface {
	List(ctx context.Context) ([]*Teacher, error)
	GetByID(ctx context.Context, teacherID int64) (*Teacher, error)
}

type TeacherService interface {
	List(ctx context.Context) ([]*Teacher, error)
	GetByID(ctx context.Context, teacherID int64) (*Teacher, error)
}
