package models

import "time"

// Event types published on the realtime channel
const (
	EventBookCreated  = "book.created"
	EventBookUpdated  = "book.updated"
	EventBookDeleted  = "book.deleted"
	EventLoanIssued   = "loan.issued"
	EventLoanReturned = "loan.returned"
)

// Event is a message broadcast to connected realtime clients
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
