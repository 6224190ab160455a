package models

import (
	"time"

	"github.com/google/uuid"
)

// Book represents a title in the library catalog
type Book struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewBook creates a new book with a generated UUID. All copies start available.
func NewBook(title, author, isbn string, copies int) *Book {
	now := time.Now()
	return &Book{
		ID:              uuid.New(),
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		TotalCopies:     copies,
		AvailableCopies: copies,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
