package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shelfwise/shelfwise-backend/internal/db"
	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewUserRepository(db.NewDB(mockDB)), mock
}

func userRows(user *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "first_name", "last_name",
		"role", "phone_number", "street", "city", "state", "zip_code", "is_active",
		"created_at", "updated_at",
	}).AddRow(
		user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName,
		user.LastName, user.Role, nil, nil, nil, nil, nil, user.IsActive,
		user.CreatedAt, user.UpdatedAt,
	)
}

func TestCreateHashesPasswordAndFoldsEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	user := models.NewUser("alice", "Alice@Example.com", "Alice", "Liddell")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(
			user.ID, "alice", "alice@example.com", sqlmock.AnyArg(), "Alice",
			"Liddell", models.RoleUser, sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), true,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(user.ID))

	err := repo.Create(context.Background(), user, "sesame-street")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "sesame-street", user.PasswordHash)
	assert.True(t, user.CheckPassword("sesame-street"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMissingFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	user := models.NewUser("alice", "", "Alice", "Liddell")
	err := repo.Create(context.Background(), user, "sesame-street")

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	user := models.NewUser("alice", "alice@example.com", "Alice", "Liddell")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_lower_idx"})

	err := repo.Create(context.Background(), user, "sesame-street")
	assert.ErrorIs(t, err, models.ErrDuplicateUser)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	user := models.NewUser("alice", "alice@example.com", "Alice", "Liddell")
	user.PasswordHash = "$2a$10$hash"

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
		WithArgs("alice@example.com").
		WillReturnRows(userRows(user))

	found, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "alice", found.Username)
	assert.Equal(t, "$2a$10$hash", found.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActive(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("SET is_active = $2")).
		WithArgs(id, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetActive(context.Background(), id, false)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActiveUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("SET is_active = $2")).
		WithArgs(id, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), id, false)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordOnlyTouchesHash(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("SET password_hash = $2")).
		WithArgs(id, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePassword(context.Background(), id, "new-password")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers(t *testing.T) {
	repo, mock := newMockRepo(t)

	alice := models.NewUser("alice", "alice@example.com", "Alice", "Liddell")
	bob := models.NewUser("bob", "bob@example.com", "Bob", "Builder")
	bob.CreatedAt = alice.CreatedAt.Add(-time.Hour)

	rows := userRows(alice)
	rows.AddRow(
		bob.ID, bob.Username, bob.Email, bob.PasswordHash, bob.FirstName,
		bob.LastName, bob.Role, nil, nil, nil, nil, nil, bob.IsActive,
		bob.CreatedAt, bob.UpdatedAt,
	)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
