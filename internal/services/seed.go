package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/internal/repository"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	"github.com/shelfwise/shelfwise-backend/pkg/env"
	"github.com/shelfwise/shelfwise-backend/pkg/password"
)

/*
SeedAdmin creates the initial administrator account. It runs only when
SW_SEED_ADMIN=true and is idempotent: if the account already exists it logs
and returns without touching it.

The password comes from SW_ADMIN_PASSWORD when set; otherwise a random one is
generated and printed to the log exactly once. There is no built-in default
credential.
*/
func SeedAdmin(ctx context.Context, users *repository.UserRepository) error {
	if !env.GetBoolOrDefault("SW_SEED_ADMIN", false) {
		debug.Debug("Admin seeding disabled, skipping")
		return nil
	}

	username := env.GetOrDefault("SW_ADMIN_USERNAME", "admin")
	email := env.GetOrDefault("SW_ADMIN_EMAIL", "admin@shelfwise.local")

	existing, err := users.GetByEmailOrUsername(ctx, email, username)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if existing != nil {
		debug.Info("Admin account %s already exists, seeding skipped", existing.Username)
		return nil
	}

	plaintext := os.Getenv("SW_ADMIN_PASSWORD")
	generated := false
	if plaintext == "" {
		plaintext = password.Generate()
		generated = true
	} else if err := password.Validate(plaintext); err != nil {
		return fmt.Errorf("SW_ADMIN_PASSWORD rejected: %w", err)
	}

	admin := models.NewUser(username, email, "Library", "Administrator")
	admin.Role = models.RoleAdmin

	if err := users.Create(ctx, admin, plaintext); err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			debug.Info("Admin account created concurrently, seeding skipped")
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	if generated {
		debug.Warning("Seeded admin account %s with generated password: %s (change it after first login)", username, plaintext)
	} else {
		debug.Info("Seeded admin account %s", username)
	}
	return nil
}
