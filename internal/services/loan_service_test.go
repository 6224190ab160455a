package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shelfwise/shelfwise-backend/internal/db"
	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures published events for assertions
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Event
}

func (n *recordingNotifier) Publish(event models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var types []string
	for _, e := range n.events {
		types = append(types, e.Type)
	}
	return types
}

func newLoanService(t *testing.T) (*LoanService, sqlmock.Sqlmock, *recordingNotifier) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	wrapped := db.NewDB(mockDB)
	notifier := &recordingNotifier{}
	service := NewLoanService(
		wrapped,
		repository.NewBookRepository(wrapped),
		repository.NewTransactionRepository(wrapped),
		repository.NewUserRepository(wrapped),
		notifier,
	)
	return service, mock, notifier
}

func expectUserLookup(mock sqlmock.Sqlmock, userID uuid.UUID, active bool) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "password_hash", "first_name", "last_name",
			"role", "phone_number", "street", "city", "state", "zip_code", "is_active",
			"created_at", "updated_at",
		}).AddRow(
			userID, "alice", "alice@example.com", "hash", "Alice", "Liddell",
			models.RoleUser, nil, nil, nil, nil, nil, active,
			time.Now(), time.Now(),
		))
}

func TestBorrow(t *testing.T) {
	service, mock, notifier := newLoanService(t)
	userID, bookID := uuid.New(), uuid.New()

	expectUserLookup(mock, userID, true)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("available_copies - 1")).
		WithArgs(bookID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	loan, err := service.Borrow(context.Background(), userID, bookID)
	require.NoError(t, err)

	assert.Equal(t, userID, loan.UserID)
	assert.Equal(t, bookID, loan.BookID)
	assert.False(t, loan.Returned)
	assert.True(t, loan.DueDate.After(loan.IssuedAt))
	assert.Equal(t, []string{models.EventLoanIssued}, notifier.types())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrowNoCopiesRollsBack(t *testing.T) {
	service, mock, notifier := newLoanService(t)
	userID, bookID := uuid.New(), uuid.New()

	expectUserLookup(mock, userID, true)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("available_copies - 1")).
		WithArgs(bookID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(bookID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := service.Borrow(context.Background(), userID, bookID)
	assert.ErrorIs(t, err, models.ErrNoCopiesAvailable)
	assert.Empty(t, notifier.types())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrowUnknownBookRollsBack(t *testing.T) {
	service, mock, _ := newLoanService(t)
	userID, bookID := uuid.New(), uuid.New()

	expectUserLookup(mock, userID, true)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("available_copies - 1")).
		WithArgs(bookID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(bookID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := service.Borrow(context.Background(), userID, bookID)
	assert.ErrorIs(t, err, models.ErrBookNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBorrowDeactivatedUser(t *testing.T) {
	service, mock, _ := newLoanService(t)
	userID, bookID := uuid.New(), uuid.New()

	expectUserLookup(mock, userID, false)

	_, err := service.Borrow(context.Background(), userID, bookID)
	assert.ErrorIs(t, err, models.ErrAccountDeactivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func transactionRows(loan *models.Transaction) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "book_id", "issued_at", "due_date", "returned", "returned_at",
	}).AddRow(loan.ID, loan.UserID, loan.BookID, loan.IssuedAt, loan.DueDate, loan.Returned, nil)
}

func TestReturn(t *testing.T) {
	service, mock, notifier := newLoanService(t)
	userID, bookID := uuid.New(), uuid.New()
	loan := models.NewTransaction(userID, bookID)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).
		WithArgs(userID, bookID).
		WillReturnRows(transactionRows(loan))
	mock.ExpectExec(regexp.QuoteMeta("SET returned = true")).
		WithArgs(loan.ID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("available_copies + 1")).
		WithArgs(bookID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	returned, err := service.Return(context.Background(), userID, bookID)
	require.NoError(t, err)

	assert.True(t, returned.Returned)
	assert.NotNil(t, returned.ReturnedAt)
	assert.Equal(t, []string{models.EventLoanReturned}, notifier.types())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnNoOpenLoan(t *testing.T) {
	service, mock, _ := newLoanService(t)
	userID, bookID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).
		WithArgs(userID, bookID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := service.Return(context.Background(), userID, bookID)
	assert.ErrorIs(t, err, models.ErrLoanNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnAlreadyReturned(t *testing.T) {
	service, mock, _ := newLoanService(t)
	userID, bookID := uuid.New(), uuid.New()
	loan := models.NewTransaction(userID, bookID)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).
		WithArgs(userID, bookID).
		WillReturnRows(transactionRows(loan))
	mock.ExpectExec(regexp.QuoteMeta("SET returned = true")).
		WithArgs(loan.ID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := service.Return(context.Background(), userID, bookID)
	assert.ErrorIs(t, err, models.ErrAlreadyReturned)
	assert.NoError(t, mock.ExpectationsWereMet())
}
