package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shelfwise/shelfwise-backend/internal/db"
	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/internal/repository"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
)

// Notifier publishes realtime events to connected clients. The websocket hub
// implements it; a nil-safe no-op is used when realtime is disabled.
type Notifier interface {
	Publish(event models.Event)
}

// LoanService coordinates borrowing and returning. Copy counters and loan
// records always move together inside one database transaction.
type LoanService struct {
	db           *db.DB
	books        *repository.BookRepository
	transactions *repository.TransactionRepository
	users        *repository.UserRepository
	notifier     Notifier
}

// NewLoanService creates a new loan service
func NewLoanService(database *db.DB, books *repository.BookRepository, transactions *repository.TransactionRepository, users *repository.UserRepository, notifier Notifier) *LoanService {
	return &LoanService{
		db:           database,
		books:        books,
		transactions: transactions,
		users:        users,
		notifier:     notifier,
	}
}

// Borrow issues a loan of the book to the user. The available-copy decrement
// and the loan insert commit or roll back as one unit, so a crash between
// them cannot strand a copy.
func (s *LoanService) Borrow(ctx context.Context, userID, bookID uuid.UUID) (*models.Transaction, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, models.ErrAccountDeactivated
	}

	loan := models.NewTransaction(userID, bookID)

	err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.books.DecrementAvailableTx(ctx, tx, bookID); err != nil {
			return err
		}
		return s.transactions.CreateTx(ctx, tx, loan)
	})
	if err != nil {
		if errors.Is(err, models.ErrBookNotFound) || errors.Is(err, models.ErrNoCopiesAvailable) {
			return nil, err
		}
		debug.Error("Failed to issue loan of book %s to user %s: %v", bookID, userID, err)
		return nil, fmt.Errorf("%w: loan issue failed", models.ErrPersistence)
	}

	debug.Info("Issued loan %s: book %s to user %s, due %s", loan.ID, bookID, user.Username, loan.DueDate.Format(time.RFC3339))
	s.publish(models.EventLoanIssued, loan)
	return loan, nil
}

// Return closes the user's oldest open loan for the book and releases the
// copy. Returning a book with no open loan yields ErrLoanNotFound; a loan
// already closed by a concurrent request yields ErrAlreadyReturned.
func (s *LoanService) Return(ctx context.Context, userID, bookID uuid.UUID) (*models.Transaction, error) {
	var loan *models.Transaction

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		loan, err = s.transactions.GetOpenLoanTx(ctx, tx, userID, bookID)
		if err != nil {
			return err
		}
		if err := s.transactions.MarkReturnedTx(ctx, tx, loan.ID); err != nil {
			return err
		}
		return s.books.IncrementAvailableTx(ctx, tx, bookID)
	})
	if err != nil {
		if errors.Is(err, models.ErrLoanNotFound) || errors.Is(err, models.ErrAlreadyReturned) ||
			errors.Is(err, models.ErrBookNotFound) {
			return nil, err
		}
		debug.Error("Failed to return book %s for user %s: %v", bookID, userID, err)
		return nil, fmt.Errorf("%w: loan return failed", models.ErrPersistence)
	}

	now := time.Now()
	loan.Returned = true
	loan.ReturnedAt = &now

	debug.Info("Closed loan %s: book %s returned by user %s", loan.ID, bookID, userID)
	s.publish(models.EventLoanReturned, loan)
	return loan, nil
}

// ListForUser returns all of one borrower's loans, newest first
func (s *LoanService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID)
}

// ListAll returns every loan on record, newest first
func (s *LoanService) ListAll(ctx context.Context) ([]models.Transaction, error) {
	return s.transactions.ListAll(ctx)
}

func (s *LoanService) publish(eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(models.Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}
