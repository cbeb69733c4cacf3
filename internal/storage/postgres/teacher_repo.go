package postgres

import (
	"context"
	"errors"
	"fmt"

	"sessionbook/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeacherRepository struct {
	db *pgxpool.Pool
}

func NewTeacherRepository(db *pgxpool.Pool) domain.TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) List(ctx context.Context) ([]*domain.Teacher, error) {
	query := `
		SELECT id, last_name, first_name, created_at, updated_at
		FROM teachers
		ORDER BY last_name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*domain.Teacher
	for rows.Next() {
		var teacher domain.Teacher
		if err := rows.Scan(&teacher.ID, &teacher.LastName, &teacher.FirstName, &teacher.CreatedAt, &teacher.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		teachers = append(teachers, &teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teachers, nil
}

func (r *TeacherRepository) GetByID(ctx context.Context, teacherID int64) (*domain.Teacher, error) {
	query := `
		SELECT id, last_name, first_name, created_at, updated_at
		FROM teachers
		WHERE id = $1
	`

	var teacher domain.Teacher
	err := r.db.QueryRow(ctx, query, teacherID).Scan(
		&teacher.ID, &teacher.LastName, &teacher.FirstName, &teacher.CreatedAt, &teacher.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeacherNotFound
		}
		return nil, err
	}

	return &teacher, nil
}
