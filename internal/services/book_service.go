package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/internal/repository"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
)

// BookService manages the catalog and broadcasts catalog changes
type BookService struct {
	books    *repository.BookRepository
	notifier Notifier
}

// NewBookService creates a new book service
func NewBookService(books *repository.BookRepository, notifier Notifier) *BookService {
	return &BookService{books: books, notifier: notifier}
}

// BookInput holds the fields accepted when creating or updating a book
type BookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	TotalCopies int    `json:"totalCopies"`
}

// Create adds a book to the catalog with all copies available
func (s *BookService) Create(ctx context.Context, input BookInput) (*models.Book, error) {
	if input.Title == "" || input.Author == "" || input.ISBN == "" {
		return nil, fmt.Errorf("%w: title, author and ISBN are required", models.ErrValidation)
	}
	if input.TotalCopies < 1 {
		return nil, fmt.Errorf("%w: total copies must be at least 1", models.ErrValidation)
	}

	book := models.NewBook(input.Title, input.Author, input.ISBN, input.TotalCopies)
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}

	debug.Info("Added book %s (%s) with %d copies", book.Title, book.ISBN, book.TotalCopies)
	s.publish(models.EventBookCreated, book)
	return book, nil
}

// Get retrieves one book by id
func (s *BookService) Get(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	return s.books.GetByID(ctx, id)
}

// List returns the whole catalog ordered by title
func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	return s.books.List(ctx)
}

// Update changes a book's catalog fields. Shrinking total copies below the
// number currently on loan is rejected so the available counter cannot go
// negative.
func (s *BookService) Update(ctx context.Context, id uuid.UUID, input BookInput) (*models.Book, error) {
	if input.Title == "" || input.Author == "" || input.ISBN == "" {
		return nil, fmt.Errorf("%w: title, author and ISBN are required", models.ErrValidation)
	}
	if input.TotalCopies < 1 {
		return nil, fmt.Errorf("%w: total copies must be at least 1", models.ErrValidation)
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	onLoan := book.TotalCopies - book.AvailableCopies
	if input.TotalCopies < onLoan {
		return nil, fmt.Errorf("%w: %d copies are on loan, total cannot drop below that", models.ErrValidation, onLoan)
	}

	book.Title = input.Title
	book.Author = input.Author
	book.ISBN = input.ISBN
	book.AvailableCopies = input.TotalCopies - onLoan
	book.TotalCopies = input.TotalCopies
	book.UpdatedAt = time.Now()

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}

	s.publish(models.EventBookUpdated, book)
	return book, nil
}

// Delete removes a book from the catalog
func (s *BookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrBookNotFound) {
			return err
		}
		debug.Error("Failed to delete book %s: %v", id, err)
		return fmt.Errorf("%w: delete failed", models.ErrPersistence)
	}

	debug.Info("Deleted book %s", id)
	s.publish(models.EventBookDeleted, map[string]string{"id": id.String()})
	return nil
}

func (s *BookService) publish(eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(models.Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}
