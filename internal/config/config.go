package config

import (
	"fmt"
	"strconv"

	"github.com/shelfwise/shelfwise-backend/pkg/env"
)

// Config holds the server configuration loaded from the environment
type Config struct {
	Host             string
	Port             int
	AllowedOrigin    string
	JWTExpiryMinutes int
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	port, err := strconv.Atoi(env.GetOrDefault("SW_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SW_PORT: %w", err)
	}

	expiry, err := strconv.Atoi(env.GetOrDefault("JWT_EXPIRY_MINUTES", "1440"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_MINUTES: %w", err)
	}

	return &Config{
		Host:             env.GetOrDefault("SW_HOST", "0.0.0.0"),
		Port:             port,
		AllowedOrigin:    env.GetOrDefault("CORS_ALLOWED_ORIGIN", "*"),
		JWTExpiryMinutes: expiry,
	}, nil
}

// Addr returns the host:port the server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
