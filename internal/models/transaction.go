package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLoanPeriod is how long a borrower may keep a book
const DefaultLoanPeriod = 14 * 24 * time.Hour

// Transaction represents a single borrowing record
type Transaction struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	BookID     uuid.UUID  `json:"bookId"`
	IssuedAt   time.Time  `json:"issuedAt"`
	DueDate    time.Time  `json:"dueDate"`
	Returned   bool       `json:"returned"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
	NotifiedAt *time.Time `json:"-"`
}

// NewTransaction creates a loan record for the default loan period
func NewTransaction(userID, bookID uuid.UUID) *Transaction {
	now := time.Now()
	return &Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		BookID:   bookID,
		IssuedAt: now,
		DueDate:  now.Add(DefaultLoanPeriod),
	}
}

// OverdueLoan is the joined view used by the overdue sweep
type OverdueLoan struct {
	TransactionID uuid.UUID
	UserEmail     string
	UserFirstName string
	BookTitle     string
	DueDate       time.Time
}
