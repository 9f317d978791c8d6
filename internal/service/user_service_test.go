package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/rxstudy-api/internal/service/auth"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

func newUserService(t *testing.T) (*UserServiceImpl, *fakeUserStore) {
	t.Helper()

	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 4; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	users := newFakeUserStore()
	svc := NewUserService(db, users, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewBcryptVerifier(), nil)
	return svc, users
}

func TestCreateUser(t *testing.T) {
	svc, users := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "student@example.com", "a-long-enough-password")
	require.NoError(t, err)

	assert.Equal(t, "student@example.com", user.Email)
	assert.Empty(t, user.Password, "plaintext must be cleared before storage")
	assert.NotEmpty(t, user.HashedPassword)
	assert.NotEqual(t, "a-long-enough-password", user.HashedPassword)
	require.Contains(t, users.byEmail, "student@example.com")
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "student@example.com", "a-long-enough-password")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "student@example.com", "another-long-password")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestCreateUser_ShortPassword(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.CreateUser(context.Background(), "student@example.com", "short")
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "student@example.com", "a-long-enough-password")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "student@example.com", "a-long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "student@example.com", "a-long-enough-password")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "student@example.com", "the-wrong-password-here")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever-password-here")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
