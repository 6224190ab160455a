package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	"github.com/shelfwise/shelfwise-backend/pkg/jwt"
	"github.com/shelfwise/shelfwise-backend/pkg/password"
)

// UserStore defines the credential store operations the auth service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User, password string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
}

// RegisterInput holds the fields required to create an account
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResult is returned by successful registration and login
type AuthResult struct {
	models.Profile
	Token string `json:"token"`
}

// AuthService orchestrates registration and login. It is the only component
// that sequences the credential store and the token issuer.
type AuthService struct {
	users         UserStore
	expiryMinutes int
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, expiryMinutes int) *AuthService {
	return &AuthService{users: users, expiryMinutes: expiryMinutes}
}

// Register creates a new account and issues a token for it.
//
// The duplicate pre-check and the insert are not one atomic step; two
// concurrent registrations for the same identity race, and the store's
// uniqueness constraint is the final authority. Both paths surface as
// models.ErrDuplicateUser.
//
// After the insert the record is re-read by id. A miss means the write was
// silently lost and is reported as models.ErrPersistence, never as success.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" ||
		input.FirstName == "" || input.LastName == "" {
		return nil, fmt.Errorf("%w: username, email, password, first name and last name are required", models.ErrValidation)
	}

	if err := password.Validate(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, err.Error())
	}

	email := strings.ToLower(input.Email)

	existing, err := s.users.GetByEmailOrUsername(ctx, email, input.Username)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		debug.Error("Duplicate check failed for %s: %v", email, err)
		return nil, fmt.Errorf("%w: duplicate check failed", models.ErrPersistence)
	}
	if existing != nil {
		debug.Info("Registration rejected, identity already taken: %s / %s", email, input.Username)
		return nil, models.ErrDuplicateUser
	}

	user := models.NewUser(input.Username, email, input.FirstName, input.LastName)
	if err := s.users.Create(ctx, user, input.Password); err != nil {
		if errors.Is(err, models.ErrDuplicateUser) || errors.Is(err, models.ErrValidation) {
			return nil, err
		}
		debug.Error("Failed to create user %s: %v", email, err)
		return nil, fmt.Errorf("%w: create failed", models.ErrPersistence)
	}

	// Read-after-write verification: confirm durability before reporting
	// success.
	saved, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		debug.Error("Read-after-write verification failed for user %s: %v", user.ID, err)
		return nil, fmt.Errorf("%w: user %s not readable after create", models.ErrPersistence, user.ID)
	}
	debug.Debug("Read-after-write verification succeeded for user %s", saved.Email)

	return s.result(saved)
}

// Login authenticates by email and password and issues a token.
//
// The deactivation check runs only after a successful password match, so a
// deactivated account with a wrong password reads the same as any wrong
// password.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*AuthResult, error) {
	if email == "" || plaintext == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			debug.Info("Login attempt for unknown email: %s", email)
			return nil, models.ErrUserNotFound
		}
		debug.Error("Failed to look up user %s: %v", email, err)
		return nil, fmt.Errorf("%w: lookup failed", models.ErrPersistence)
	}

	if !user.CheckPassword(plaintext) {
		debug.Info("Invalid password for user %s", user.Username)
		return nil, models.ErrInvalidCredentials
	}

	if !user.IsActive {
		debug.Warning("Login attempt for deactivated account: %s", user.Username)
		return nil, models.ErrAccountDeactivated
	}

	return s.result(user)
}

// Me returns the public profile for the authenticated caller's own id
func (s *AuthService) Me(ctx context.Context, callerID string) (*models.Profile, error) {
	id, err := uuid.Parse(callerID)
	if err != nil {
		return nil, models.ErrUserNotFound
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: lookup failed", models.ErrPersistence)
	}

	profile := user.Profile()
	return &profile, nil
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := jwt.GenerateToken(user.ID.String(), user.Role, s.expiryMinutes)
	if err != nil {
		debug.Error("Failed to generate token for user %s: %v", user.ID, err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{Profile: user.Profile(), Token: token}, nil
}
