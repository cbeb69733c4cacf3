package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"sessionbook/internal/core/token"
	"sessionbook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail       map[string]*domain.User
	nextID        int64
	getByEmailErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.getByEmailErr != nil {
		return nil, r.getByEmailErr
	}
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, userID int64) error {
	for email, u := range r.byEmail {
		if u.ID == userID {
			delete(r.byEmail, email)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func newTestService(repo domain.UserRepository) domain.AuthService {
	codec := token.NewCodec([]byte("test-secret"), time.Hour, time.Now)
	return NewService(repo, codec)
}

func TestService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	req := domain.RegisterRequest{
		Email:     "jane@studio.com",
		LastName:  "Doe",
		FirstName: "Jane",
		Password:  "supersecret",
	}

	require.NoError(t, svc.Register(context.Background(), req))

	user := repo.byEmail["jane@studio.com"]
	require.NotNil(t, user)
	assert.NotEqual(t, "supersecret", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("supersecret")))
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	req := domain.RegisterRequest{
		Email:     "jane@studio.com",
		LastName:  "Doe",
		FirstName: "Jane",
		Password:  "supersecret",
	}

	require.NoError(t, svc.Register(context.Background(), req))

	err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	require.NoError(t, svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "jane@studio.com",
		LastName:  "Doe",
		FirstName: "Jane",
		Password:  "supersecret",
	}))

	res, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "jane@studio.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "jane@studio.com", res.User.Email)
	assert.NotEmpty(t, res.AccessToken)

	// The issued token resolves back to the same subject.
	codec := token.NewCodec([]byte("test-secret"), time.Hour, time.Now)
	result := codec.Validate(res.AccessToken)
	require.True(t, result.Valid())
	assert.Equal(t, "jane@studio.com", result.Subject)
}

func TestService_LoginBadPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	require.NoError(t, svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "jane@studio.com",
		LastName:  "Doe",
		FirstName: "Jane",
		Password:  "supersecret",
	}))

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "jane@studio.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestService_LoginUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "ghost@studio.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestService_LoginRepositoryFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getByEmailErr = errors.New("connection refused")
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "jane@studio.com",
		Password: "supersecret",
	})

	// An infrastructure failure is not a credentials problem.
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, err, repo.getByEmailErr)
}

func TestService_ResolveByEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	require.NoError(t, svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "jane@studio.com",
		LastName:  "Doe",
		FirstName: "Jane",
		Password:  "supersecret",
	}))

	user, err := svc.ResolveByEmail(context.Background(), "jane@studio.com")
	require.NoError(t, err)
	assert.Equal(t, "jane@studio.com", user.Email)

	_, err = svc.ResolveByEmail(context.Background(), "ghost@studio.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
