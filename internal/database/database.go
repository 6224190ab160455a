package database

import (
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/shelfwise/shelfwise-backend/internal/db"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	"github.com/shelfwise/shelfwise-backend/pkg/env"
)

/*
 * Connect establishes a connection to the PostgreSQL database using environment variables.
 * The connection goes through db.New, which applies the pool limits and
 * validates the connection with a ping test before returning.
 *
 * Returns:
 *   - *db.DB: Database connection pool if successful
 *   - error: Any error encountered during connection
 */
func Connect() (*db.DB, error) {
	debug.Info("Attempting database connection")

	cfg, err := configFromEnv()
	if err != nil {
		debug.Error("Invalid database configuration: %v", err)
		return nil, err
	}

	debug.Debug("Database configuration - Host: %s, Port: %d, User: %s, Database: %s",
		cfg.Host, cfg.Port, cfg.User, cfg.DBName)

	conn, err := db.New(cfg)
	if err != nil {
		debug.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	debug.Info("Successfully connected to database")
	return conn, nil
}

func configFromEnv() (db.Config, error) {
	port, err := strconv.Atoi(env.GetOrDefault("DB_PORT", "5432"))
	if err != nil {
		return db.Config{}, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	return db.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     port,
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  env.GetOrDefault("DB_SSL_MODE", "disable"),
	}, nil
}

/*
 * RunMigrations executes all pending database migrations from the db/migrations directory.
 * Migrations are run in order based on their numeric prefix.
 *
 * Returns:
 *   - error: Any error encountered during migration, nil if successful
 *           Returns nil if no migrations are pending (ErrNoChange)
 */
func RunMigrations() error {
	debug.Info("Starting database migrations")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	m, err := migrate.New(
		"file://db/migrations",
		connStr)
	if err != nil {
		debug.Error("Failed to create migration instance: %v", err)
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		debug.Error("Migration failed: %v", err)
		return err
	}
	debug.Info("Database migrations completed successfully")
	return nil
}
