package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shelfwise/shelfwise-backend/internal/db"
	"github.com/shelfwise/shelfwise-backend/internal/db/queries"
	"github.com/shelfwise/shelfwise-backend/internal/models"
)

// BookRepository handles database operations for the book catalog
type BookRepository struct {
	db *db.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *db.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create persists a new book
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	if book.Title == "" || book.Author == "" || book.ISBN == "" {
		return fmt.Errorf("%w: title, author and ISBN are required", models.ErrValidation)
	}

	err := r.db.QueryRowContext(ctx, queries.CreateBook,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.TotalCopies,
		book.AvailableCopies,
		book.CreatedAt,
		book.UpdatedAt,
	).Scan(&book.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return models.ErrDuplicateISBN
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// GetByID retrieves a book by ID
func (r *BookRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	book := &models.Book{}

	err := r.db.QueryRowContext(ctx, queries.GetBookByID, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.TotalCopies,
		&book.AvailableCopies,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrBookNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// List retrieves all books ordered by title
func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, queries.ListBooks)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var book models.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.ISBN,
			&book.TotalCopies,
			&book.AvailableCopies,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// Update updates a book's catalog fields
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	result, err := r.db.ExecContext(ctx, queries.UpdateBook,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.TotalCopies,
		book.AvailableCopies,
		time.Now(),
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return models.ErrDuplicateISBN
		}
		return fmt.Errorf("failed to update book: %w", err)
	}
	return requireRowAffected(result, models.ErrBookNotFound)
}

// Delete removes a book from the catalog
func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, queries.DeleteBook, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return requireRowAffected(result, models.ErrBookNotFound)
}

// DecrementAvailableTx reserves a copy of the book within a transaction.
// Returns ErrNoCopiesAvailable when every copy is on loan and
// ErrBookNotFound when the book does not exist.
func (r *BookRepository) DecrementAvailableTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, queries.DecrementAvailableCopies, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to decrement available copies: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Zero rows: either the book is missing or out of copies
	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)", id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check book existence: %w", err)
	}
	if !exists {
		return models.ErrBookNotFound
	}
	return models.ErrNoCopiesAvailable
}

// IncrementAvailableTx releases a copy of the book within a transaction
func (r *BookRepository) IncrementAvailableTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, queries.IncrementAvailableCopies, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to increment available copies: %w", err)
	}
	return requireRowAffected(result, models.ErrBookNotFound)
}
