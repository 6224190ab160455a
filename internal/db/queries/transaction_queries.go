package queries

const (
	CreateTransaction = `
		INSERT INTO transactions (
			id, user_id, book_id, issued_at, due_date, returned
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	transactionColumns = `
		id, user_id, book_id, issued_at, due_date, returned, returned_at`

	GetTransactionByID = `
		SELECT` + transactionColumns + `
		FROM transactions
		WHERE id = $1`

	GetOpenLoan = `
		SELECT` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND book_id = $2 AND returned = false
		ORDER BY issued_at ASC
		LIMIT 1`

	ListTransactionsByUser = `
		SELECT` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY issued_at DESC`

	ListAllTransactions = `
		SELECT` + transactionColumns + `
		FROM transactions
		ORDER BY issued_at DESC`

	// Flips the returned flag exactly once
	MarkReturned = `
		UPDATE transactions
		SET returned = true, returned_at = $2
		WHERE id = $1 AND returned = false`

	// Open loans past their due date that have not been reminded in the
	// last 24 hours, joined with borrower and book details.
	ListOverdueLoans = `
		SELECT t.id, u.email, u.first_name, b.title, t.due_date
		FROM transactions t
		JOIN users u ON u.id = t.user_id
		JOIN books b ON b.id = t.book_id
		WHERE t.returned = false
		AND t.due_date < $1
		AND (t.notified_at IS NULL OR t.notified_at < $1 - INTERVAL '24 hours')
		ORDER BY t.due_date ASC`

	MarkLoanNotified = `
		UPDATE transactions
		SET notified_at = $2
		WHERE id = $1`
)
