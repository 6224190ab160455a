package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shelfwise/shelfwise-backend/internal/db"
	"github.com/shelfwise/shelfwise-backend/internal/db/queries"
	"github.com/shelfwise/shelfwise-backend/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// UserRepository handles database operations for users. It owns the
// password-hashing invariant: the hash is written only on Create and
// UpdatePassword, never on profile updates.
type UserRepository struct {
	db *db.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *db.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user, hashing the plaintext password exactly once.
// The email is stored case-folded. A unique constraint violation on
// username or email is reported as models.ErrDuplicateUser, making the
// database the final authority on identity conflicts.
func (r *UserRepository) Create(ctx context.Context, user *models.User, password string) error {
	if user.Username == "" || user.Email == "" || password == "" ||
		user.FirstName == "" || user.LastName == "" {
		return fmt.Errorf("%w: username, email, password, first name and last name are required", models.ErrValidation)
	}

	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Email = strings.ToLower(user.Email)

	err := r.db.QueryRowContext(ctx, queries.CreateUser,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		nullable(user.PhoneNumber),
		nullable(user.Address.Street),
		nullable(user.Address.City),
		nullable(user.Address.State),
		nullable(user.Address.ZipCode),
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return models.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, queries.GetUserByID, id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, queries.GetUserByEmail, email)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByEmailOrUsername retrieves a user matching either identity, used to
// detect duplicates before registration.
func (r *UserRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, queries.GetUserByEmailOrUsername, email, username)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user by email or username: %w", err)
	}
	return user, nil
}

// List retrieves all users ordered by creation time
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, queries.ListUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateProfile updates the mutable profile fields. The password hash is
// deliberately untouched here.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	result, err := r.db.ExecContext(ctx, queries.UpdateUserProfile,
		user.ID,
		user.FirstName,
		user.LastName,
		nullable(user.PhoneNumber),
		nullable(user.Address.Street),
		nullable(user.Address.City),
		nullable(user.Address.State),
		nullable(user.Address.ZipCode),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRowAffected(result, models.ErrUserNotFound)
}

// UpdatePassword hashes and stores a new password for the user. This is the
// only update path that touches password_hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	user := &models.User{}
	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := r.db.ExecContext(ctx, queries.UpdateUserPassword, id, user.PasswordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRowAffected(result, models.ErrUserNotFound)
}

// SetActive toggles the deactivation flag. Deactivation is the deletion
// substitute; records are never hard-deleted.
func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx, queries.SetUserActive, id, active, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update user active flag: %w", err)
	}
	return requireRowAffected(result, models.ErrUserNotFound)
}

// scanner abstracts sql.Row and sql.Rows for shared scan code
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var phone, street, city, state, zip sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&phone,
		&street,
		&city,
		&state,
		&zip,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.PhoneNumber = phone.String
	user.Address = models.Address{
		Street:  street.String,
		City:    city.String,
		State:   state.String,
		ZipCode: zip.String,
	}
	return user, nil
}

// nullable converts an empty string to NULL for optional columns
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// requireRowAffected maps a zero-row update to the given not-found error
func requireRowAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
