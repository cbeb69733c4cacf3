package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"sessionbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessionRepo mirrors the postgres repository's contract: reads are
// unserialized snapshots, membership deltas are applied atomically against
// the stored set.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[int64]*domain.Session
	writes   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[int64]*domain.Session)}
}

func clone(s *domain.Session) *domain.Session {
	copied := *s
	copied.Users = append([]int64{}, s.Users...)
	return &copied
}

func (r *fakeSessionRepo) List(ctx context.Context) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Session
	for _, s := range r.sessions {
		out = append(out, clone(s))
	}
	return out, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, sessionID int64) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		return clone(s), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session.ID = int64(len(r.sessions) + 1)
	if session.Users == nil {
		session.Users = []int64{}
	}
	r.sessions[session.ID] = clone(session)
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *domain.Session, sessionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}

	r.writes++
	stored.Name = session.Name
	stored.Date = session.Date
	stored.Description = session.Description
	stored.TeacherID = session.TeacherID
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, sessionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

func (r *fakeSessionRepo) AddParticipant(ctx context.Context, sessionID, userID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	if stored.HasParticipant(userID) {
		return nil, domain.ErrAlreadyParticipating
	}

	r.writes++
	stored.Users = append(stored.Users, userID)
	return append([]int64{}, stored.Users...), nil
}

func (r *fakeSessionRepo) RemoveParticipant(ctx context.Context, sessionID, userID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	if !stored.HasParticipant(userID) {
		return nil, domain.ErrNotParticipating
	}

	r.writes++
	kept := []int64{}
	for _, id := range stored.Users {
		if id != userID {
			kept = append(kept, id)
		}
	}
	stored.Users = kept
	return append([]int64{}, stored.Users...), nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(ids ...int64) *fakeUserRepo {
	users := make(map[int64]*domain.User)
	for _, id := range ids {
		users[id] = &domain.User{ID: id}
	}
	return &fakeUserRepo{users: users}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	if u, ok := r.users[userID]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, userID int64) error {
	delete(r.users, userID)
	return nil
}

func seedSession(t *testing.T, repo *fakeSessionRepo, users ...int64) int64 {
	t.Helper()

	teacherID := int64(1)
	session := &domain.Session{
		Name:        "Morning Flow",
		Date:        time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
		Description: "Gentle start to the day",
		TeacherID:   &teacherID,
		Users:       append([]int64{}, users...),
	}
	require.NoError(t, repo.Create(context.Background(), session))

	return session.ID
}

func TestService_Participate(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo(5)
	svc := NewService(sessions, users)

	sessionID := seedSession(t, sessions)

	updated, err := svc.Participate(context.Background(), sessionID, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, updated.Users)

	stored, _ := sessions.GetByID(context.Background(), sessionID)
	assert.Equal(t, []int64{5}, stored.Users)
}

func TestService_ParticipateTwice(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo(5)
	svc := NewService(sessions, users)

	sessionID := seedSession(t, sessions)

	_, err := svc.Participate(context.Background(), sessionID, 5)
	require.NoError(t, err)

	writesBefore := sessions.writes

	_, err = svc.Participate(context.Background(), sessionID, 5)
	assert.ErrorIs(t, err, domain.ErrAlreadyParticipating)

	// The conflict left the stored set untouched: exactly one occurrence, no
	// extra write.
	assert.Equal(t, writesBefore, sessions.writes)
	stored, _ := sessions.GetByID(context.Background(), sessionID)
	assert.Equal(t, []int64{5}, stored.Users)
}

func TestService_ParticipateSessionNotFound(t *testing.T) {
	svc := NewService(newFakeSessionRepo(), newFakeUserRepo(5))

	_, err := svc.Participate(context.Background(), 404, 5)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestService_ParticipateUserNotFound(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc := NewService(sessions, newFakeUserRepo())

	sessionID := seedSession(t, sessions)

	_, err := svc.Participate(context.Background(), sessionID, 404)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	stored, _ := sessions.GetByID(context.Background(), sessionID)
	assert.Empty(t, stored.Users)
}

func TestService_Unparticipate(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo(5)
	svc := NewService(sessions, users)

	sessionID := seedSession(t, sessions, 5)

	updated, err := svc.Unparticipate(context.Background(), sessionID, 5)
	require.NoError(t, err)
	assert.Empty(t, updated.Users)
}

func TestService_UnparticipateNotMember(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc := NewService(sessions, newFakeUserRepo(5))

	sessionID := seedSession(t, sessions, 7)

	_, err := svc.Unparticipate(context.Background(), sessionID, 5)
	assert.ErrorIs(t, err, domain.ErrNotParticipating)

	stored, _ := sessions.GetByID(context.Background(), sessionID)
	assert.Equal(t, []int64{7}, stored.Users)
}

func TestService_UnparticipateSessionNotFound(t *testing.T) {
	svc := NewService(newFakeSessionRepo(), newFakeUserRepo(5))

	_, err := svc.Unparticipate(context.Background(), 404, 5)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestService_ParticipateRoundTrip(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo(3, 5)
	svc := NewService(sessions, users)

	sessionID := seedSession(t, sessions, 3)

	_, err := svc.Participate(context.Background(), sessionID, 5)
	require.NoError(t, err)

	_, err = svc.Unparticipate(context.Background(), sessionID, 5)
	require.NoError(t, err)

	stored, _ := sessions.GetByID(context.Background(), sessionID)
	assert.Equal(t, []int64{3}, stored.Users)
}

func TestService_ParticipateScenario(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo(5)
	svc := NewService(sessions, users)

	sessionID := seedSession(t, sessions)
	ctx := context.Background()

	updated, err := svc.Participate(ctx, sessionID, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, updated.Users)

	_, err = svc.Participate(ctx, sessionID, 5)
	assert.ErrorIs(t, err, domain.ErrAlreadyParticipating)

	updated, err = svc.Unparticipate(ctx, sessionID, 5)
	require.NoError(t, err)
	assert.Empty(t, updated.Users)

	_, err = svc.Unparticipate(ctx, sessionID, 5)
	assert.ErrorIs(t, err, domain.ErrNotParticipating)
}

func TestService_ConcurrentParticipateDistinctUsers(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo(5, 7)
	svc := NewService(sessions, users)

	sessionID := seedSession(t, sessions)
	ctx := context.Background()

	// Both callers read the empty set before either write lands; both
	// enrollments must still be persisted.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []int64{5, 7} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Participate(ctx, sessionID, userID)
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	stored, _ := sessions.GetByID(ctx, sessionID)
	assert.ElementsMatch(t, []int64{5, 7}, stored.Users)
}

func TestService_ConcurrentParticipateSameUser(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo(5)
	svc := NewService(sessions, users)

	sessionID := seedSession(t, sessions)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Participate(ctx, sessionID, 5)
		}()
	}
	wg.Wait()

	// Exactly one enroll wins; the stored set holds a single occurrence.
	var conflicts, successes int
	for _, err := range errs {
		switch err {
		case nil:
			successes++
		case domain.ErrAlreadyParticipating:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	stored, _ := sessions.GetByID(ctx, sessionID)
	assert.Equal(t, []int64{5}, stored.Users)
}
