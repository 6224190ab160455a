package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserStore is an in-memory UserStore mirroring the repository's
// semantics: emails case-folded, duplicates rejected, hash set on create.
type fakeUserStore struct {
	users      map[uuid.UUID]*models.User
	dropWrites bool
	failWith   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User, password string) error {
	if f.failWith != nil {
		return f.failWith
	}
	user.Email = strings.ToLower(user.Email)
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return models.ErrDuplicateUser
		}
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	if f.dropWrites {
		return nil
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == strings.ToLower(email) || user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func validInput() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "sesame-street",
		FirstName: "Alice",
		LastName:  "Liddell",
	}
}

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, 60)

	result, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, "alice@example.com", result.Email)
	assert.Equal(t, models.RoleUser, result.Role)
	assert.NotEmpty(t, result.Token)

	// The token must resolve back to the stored user
	userID, err := jwt.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.ID.String(), userID)

	saved, err := store.GetByID(context.Background(), result.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "sesame-street", saved.PasswordHash)
	assert.True(t, saved.CheckPassword("sesame-street"))
}

func TestRegisterMissingFields(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), 60)

	input := validInput()
	input.Email = ""

	_, err := service.Register(context.Background(), input)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegisterShortPassword(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), 60)

	input := validInput()
	input.Password = "abc"

	_, err := service.Register(context.Background(), input)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, 60)

	_, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	second := validInput()
	second.Username = "alice2"
	second.Email = "Alice@Example.com"

	_, err = service.Register(context.Background(), second)
	assert.ErrorIs(t, err, models.ErrDuplicateUser)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, 60)

	_, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	second := validInput()
	second.Email = "other@example.com"

	_, err = service.Register(context.Background(), second)
	assert.ErrorIs(t, err, models.ErrDuplicateUser)
}

func TestRegisterLostWriteReportsPersistenceFault(t *testing.T) {
	store := newFakeUserStore()
	store.dropWrites = true
	service := NewAuthService(store, 60)

	_, err := service.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, models.ErrPersistence)
}

func TestRegisterStoreFailure(t *testing.T) {
	store := newFakeUserStore()
	store.failWith = errors.New("connection refused")
	service := NewAuthService(store, 60)

	_, err := service.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, models.ErrPersistence)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, 60)

	_, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	result, err := service.Login(context.Background(), "alice@example.com", "sesame-street")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.NotEmpty(t, result.Token)
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, 60)

	_, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = service.Login(context.Background(), "ALICE@EXAMPLE.COM", "sesame-street")
	assert.NoError(t, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), 60)

	_, err := service.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, 60)

	_, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = service.Login(context.Background(), "alice@example.com", "not-the-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, 60)

	result, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	store.users[result.ID].IsActive = false

	_, err = service.Login(context.Background(), "alice@example.com", "sesame-street")
	assert.ErrorIs(t, err, models.ErrAccountDeactivated)
}

func TestLoginDeactivatedWrongPasswordReadsAsInvalid(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, 60)

	result, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	store.users[result.ID].IsActive = false

	// Password check runs before the deactivation check
	_, err = service.Login(context.Background(), "alice@example.com", "not-the-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	store := newFakeUserStore()
	service := NewAuthService(store, 60)

	result, err := service.Register(context.Background(), validInput())
	require.NoError(t, err)

	profile, err := service.Me(context.Background(), result.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, result.ID, profile.ID)
}

func TestMeUnknownID(t *testing.T) {
	service := NewAuthService(newFakeUserStore(), 60)

	_, err := service.Me(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = service.Me(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
