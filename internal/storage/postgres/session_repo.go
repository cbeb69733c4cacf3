package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sessionbook/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) domain.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) List(ctx context.Context) ([]*domain.Session, error) {
	query := `
		SELECT id, name, date, description, teacher_id, created_at, updated_at
		FROM sessions
		ORDER BY date DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	byID := make(map[int64]*domain.Session)

	for rows.Next() {
		var session domain.Session
		err := rows.Scan(
			&session.ID, &session.Name, &session.Date, &session.Description, &session.TeacherID,
			&session.CreatedAt, &session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		session.Users = []int64{}
		sessions = append(sessions, &session)
		byID[session.ID] = &session
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return sessions, nil
	}

	participantRows, err := r.db.Query(ctx, `SELECT session_id, user_id FROM participate ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer participantRows.Close()

	for participantRows.Next() {
		var sessionID, userID int64
		if err := participantRows.Scan(&sessionID, &userID); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		if session, ok := byID[sessionID]; ok {
			session.Users = append(session.Users, userID)
		}
	}

	if err := participantRows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*domain.Session, error) {
	query := `
		SELECT id, name, date, description, teacher_id, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`

	var session domain.Session
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.ID, &session.Name, &session.Date, &session.Description, &session.TeacherID,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	users, err := loadParticipants(ctx, r.db, sessionID)
	if err != nil {
		return nil, err
	}
	session.Users = users

	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (name, date, description, teacher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now().UTC()

	err := r.db.QueryRow(ctx, query,
		session.Name,
		session.Date,
		session.Description,
		session.TeacherID,
		now,
		now,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	session.CreatedAt = now
	session.UpdatedAt = now
	if session.Users == nil {
		session.Users = []int64{}
	}

	return nil
}

// Update writes the session row fields only. Participant membership changes
// go through AddParticipant / RemoveParticipant.
func (r *SessionRepository) Update(ctx context.Context, session *domain.Session, sessionID int64) error {
	now := time.Now().UTC()

	ct, err := r.db.Exec(ctx, `
		UPDATE sessions
		SET name = $1, date = $2, description = $3, teacher_id = $4, updated_at = $5
		WHERE id = $6
	`,
		session.Name,
		session.Date,
		session.Description,
		session.TeacherID,
		now,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	session.UpdatedAt = now

	return nil
}

// AddParticipant locks the session row, applies the insert, and reads the
// resulting set before committing. Concurrent deltas against the same
// session id serialize on the row lock, and the ON CONFLICT guard makes the
// membership check authoritative even if the caller's earlier read was stale.
func (r *SessionRepository) AddParticipant(ctx context.Context, sessionID, userID int64) ([]int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockSession(ctx, tx, sessionID); err != nil {
		return nil, err
	}

	ct, err := tx.Exec(ctx, `
		INSERT INTO participate (session_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id, user_id) DO NOTHING
	`, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert participant: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return nil, domain.ErrAlreadyParticipating
	}

	users, err := loadParticipants(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	return users, nil
}

func (r *SessionRepository) RemoveParticipant(ctx context.Context, sessionID, userID int64) ([]int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockSession(ctx, tx, sessionID); err != nil {
		return nil, err
	}

	ct, err := tx.Exec(ctx, `DELETE FROM participate WHERE session_id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete participant: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return nil, domain.ErrNotParticipating
	}

	users, err := loadParticipants(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	return users, nil
}

func lockSession(ctx context.Context, tx pgx.Tx, sessionID int64) error {
	var lockedID int64
	err := tx.QueryRow(ctx, `SELECT id FROM sessions WHERE id = $1 FOR UPDATE`, sessionID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSessionNotFound
		}
		return err
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadParticipants(ctx context.Context, q querier, sessionID int64) ([]int64, error) {
	rows, err := q.Query(ctx, `SELECT user_id FROM participate WHERE session_id = $1 ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	users := []int64{}
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		users = append(users, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
