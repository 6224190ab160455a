package queries

const (
	CreateBook = `
		INSERT INTO books (
			id, title, author, isbn, total_copies, available_copies,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	bookColumns = `
		id, title, author, isbn, total_copies, available_copies,
		created_at, updated_at`

	GetBookByID = `
		SELECT` + bookColumns + `
		FROM books
		WHERE id = $1`

	ListBooks = `
		SELECT` + bookColumns + `
		FROM books
		ORDER BY title ASC`

	UpdateBook = `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, total_copies = $5,
			available_copies = $6, updated_at = $7
		WHERE id = $1`

	DeleteBook = `
		DELETE FROM books
		WHERE id = $1`

	// Decrements availability only while copies remain; zero rows affected
	// means every copy is on loan.
	DecrementAvailableCopies = `
		UPDATE books
		SET available_copies = available_copies - 1, updated_at = $2
		WHERE id = $1 AND available_copies > 0`

	IncrementAvailableCopies = `
		UPDATE books
		SET available_copies = available_copies + 1, updated_at = $2
		WHERE id = $1`
)
