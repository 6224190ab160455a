package models

import "errors"

// Error kinds recovered at the handler boundary and mapped to client-facing
// status codes. Anything else bubbling up is treated as a server fault.
var (
	// ErrValidation indicates missing or malformed input
	ErrValidation = errors.New("invalid input")

	// ErrDuplicateUser indicates a username or email identity conflict
	ErrDuplicateUser = errors.New("user with this email or username already exists")

	// ErrUserNotFound indicates no account matches the given identity
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates a failed password check. The message
	// must not reveal whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDeactivated indicates a correct login against a deactivated account
	ErrAccountDeactivated = errors.New("account is deactivated")

	// ErrPersistence indicates a hard storage fault, including a failed
	// read-after-write verification. Not retried, surfaced as a server fault.
	ErrPersistence = errors.New("persistence fault")

	// ErrBookNotFound indicates no book matches the given id
	ErrBookNotFound = errors.New("book not found")

	// ErrDuplicateISBN indicates a book with the same ISBN already exists
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")

	// ErrNoCopiesAvailable indicates all copies of a book are on loan
	ErrNoCopiesAvailable = errors.New("no copies available")

	// ErrLoanNotFound indicates no open loan matches the request
	ErrLoanNotFound = errors.New("loan not found")

	// ErrAlreadyReturned indicates a double return of the same loan
	ErrAlreadyReturned = errors.New("book already returned")
)
