package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/config"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/db"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/types"
)

// fakeUserStore is an in-memory UserStore for unit tests.
type fakeUserStore struct {
	users map[string]*db.User // keyed by email
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*db.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, passwordHash string) (*db.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[email] = user
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[email], nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateUserPassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return errors.New("user not found")
}

func testUserService(store UserStore) *UserService {
	return NewUserService(store, &config.PasswordConfig{BcryptCost: 10})
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	service := testUserService(store)
	ctx := context.Background()

	user, err := service.Register(ctx, &types.CreateUserRequest{
		Name:     "Mara",
		Email:    "mara@example.com",
		Password: "long-enough-pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "mara@example.com", user.Email)
	assert.NotEqual(t, uuid.Nil, user.ID)

	// Stored hash must not be the plaintext password
	assert.NotEqual(t, "long-enough-pw", store.users["mara@example.com"].PasswordHash)

	loggedIn, err := service.Login(ctx, &types.LoginRequest{
		Email:    "mara@example.com",
		Password: "long-enough-pw",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	service := testUserService(store)
	ctx := context.Background()

	_, err := service.Register(ctx, &types.CreateUserRequest{Name: "Mara", Email: "mara@example.com", Password: "long-enough-pw"})
	require.NoError(t, err)

	_, err = service.Register(ctx, &types.CreateUserRequest{Name: "Other", Email: "mara@example.com", Password: "another-password"})
	require.Error(t, err)

	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	store := newFakeUserStore()
	service := testUserService(store)
	ctx := context.Background()

	_, err := service.Register(ctx, &types.CreateUserRequest{Name: "Mara", Email: "mara@example.com", Password: "long-enough-pw"})
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, &types.LoginRequest{Email: "mara@example.com", Password: "wrong-password"})
		var invalid *ErrInvalidCredentials
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Login(ctx, &types.LoginRequest{Email: "nobody@example.com", Password: "long-enough-pw"})
		var invalid *ErrInvalidCredentials
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestUserService_UpdatePassword(t *testing.T) {
	store := newFakeUserStore()
	service := testUserService(store)
	ctx := context.Background()

	user, err := service.Register(ctx, &types.CreateUserRequest{Name: "Mara", Email: "mara@example.com", Password: "long-enough-pw"})
	require.NoError(t, err)

	err = service.UpdatePassword(ctx, user.ID, "long-enough-pw", "brand-new-password")
	require.NoError(t, err)

	_, err = service.Login(ctx, &types.LoginRequest{Email: "mara@example.com", Password: "brand-new-password"})
	assert.NoError(t, err)
}

func TestUserService_UpdatePassword_WrongCurrent(t *testing.T) {
	store := newFakeUserStore()
	service := testUserService(store)
	ctx := context.Background()

	user, err := service.Register(ctx, &types.CreateUserRequest{Name: "Mara", Email: "mara@example.com", Password: "long-enough-pw"})
	require.NoError(t, err)

	err = service.UpdatePassword(ctx, user.ID, "not-the-password", "brand-new-password")
	var mismatch *ErrPasswordMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestUserService_UpdatePassword_UnknownUser(t *testing.T) {
	service := testUserService(newFakeUserStore())

	err := service.UpdatePassword(context.Background(), uuid.New(), "whatever-pw", "brand-new-password")
	var notFound *ErrUserNotFound
	assert.ErrorAs(t, err, &notFound)
}
