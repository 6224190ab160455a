package queries

const (
	CreateUser = `
		INSERT INTO users (
			id, username, email, password_hash, first_name, last_name,
			role, phone_number, street, city, state, zip_code, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`

	userColumns = `
		id, username, email, password_hash, first_name, last_name,
		role, phone_number, street, city, state, zip_code, is_active,
		created_at, updated_at`

	GetUserByID = `
		SELECT` + userColumns + `
		FROM users
		WHERE id = $1`

	GetUserByEmail = `
		SELECT` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1)`

	GetUserByEmailOrUsername = `
		SELECT` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1) OR username = $2`

	ListUsers = `
		SELECT` + userColumns + `
		FROM users
		ORDER BY created_at DESC`

	UpdateUserProfile = `
		UPDATE users
		SET first_name = $2, last_name = $3, phone_number = $4,
			street = $5, city = $6, state = $7, zip_code = $8,
			updated_at = $9
		WHERE id = $1`

	UpdateUserPassword = `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE id = $1`

	SetUserActive = `
		UPDATE users
		SET is_active = $2, updated_at = $3
		WHERE id = $1`
)
