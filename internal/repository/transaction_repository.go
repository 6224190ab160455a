package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shelfwise/shelfwise-backend/internal/db"
	"github.com/shelfwise/shelfwise-backend/internal/db/queries"
	"github.com/shelfwise/shelfwise-backend/internal/models"
)

// TransactionRepository handles database operations for borrowing records
type TransactionRepository struct {
	db *db.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *db.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTx persists a loan record within a transaction
func (r *TransactionRepository) CreateTx(ctx context.Context, tx *sql.Tx, t *models.Transaction) error {
	err := tx.QueryRowContext(ctx, queries.CreateTransaction,
		t.ID,
		t.UserID,
		t.BookID,
		t.IssuedAt,
		t.DueDate,
		t.Returned,
	).Scan(&t.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a loan record by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, queries.GetTransactionByID, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrLoanNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// GetOpenLoanTx finds the oldest open loan for the user/book pair within a
// transaction.
func (r *TransactionRepository) GetOpenLoanTx(ctx context.Context, tx *sql.Tx, userID, bookID uuid.UUID) (*models.Transaction, error) {
	row := tx.QueryRowContext(ctx, queries.GetOpenLoan, userID, bookID)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrLoanNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get open loan: %w", err)
	}
	return t, nil
}

// ListByUser retrieves all loans for one borrower, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, queries.ListTransactionsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListAll retrieves every loan, newest first
func (r *TransactionRepository) ListAll(ctx context.Context) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, queries.ListAllTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// MarkReturnedTx flips the returned flag within a transaction. A zero-row
// update means the loan was already returned.
func (r *TransactionRepository) MarkReturnedTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, queries.MarkReturned, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark transaction returned: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrAlreadyReturned
	}
	return nil
}

// ListOverdue returns open loans past their due date that have not been
// reminded within the last day.
func (r *TransactionRepository) ListOverdue(ctx context.Context, now time.Time) ([]models.OverdueLoan, error) {
	rows, err := r.db.QueryContext(ctx, queries.ListOverdueLoans, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue loans: %w", err)
	}
	defer rows.Close()

	var loans []models.OverdueLoan
	for rows.Next() {
		var loan models.OverdueLoan
		err := rows.Scan(
			&loan.TransactionID,
			&loan.UserEmail,
			&loan.UserFirstName,
			&loan.BookTitle,
			&loan.DueDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overdue loan: %w", err)
		}
		loans = append(loans, loan)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue loans: %w", err)
	}

	return loans, nil
}

// MarkNotified records that a reminder was sent for the loan
func (r *TransactionRepository) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, queries.MarkLoanNotified, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark loan notified: %w", err)
	}
	return nil
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var returnedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.BookID,
		&t.IssuedAt,
		&t.DueDate,
		&t.Returned,
		&returnedAt,
	)
	if err != nil {
		return nil, err
	}

	if returnedAt.Valid {
		t.ReturnedAt = &returnedAt.Time
	}
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
