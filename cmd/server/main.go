package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/shelfwise/shelfwise-backend/internal/config"
	"github.com/shelfwise/shelfwise-backend/internal/database"
	"github.com/shelfwise/shelfwise-backend/internal/email"
	"github.com/shelfwise/shelfwise-backend/internal/repository"
	"github.com/shelfwise/shelfwise-backend/internal/routes"
	"github.com/shelfwise/shelfwise-backend/internal/services"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	"github.com/shelfwise/shelfwise-backend/pkg/env"
)

func main() {
	debug.Reinitialize()
	debug.Info("Starting ShelfWise backend")

	loadEnv()
	debug.Reinitialize()

	cfg, err := config.NewConfig()
	if err != nil {
		debug.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	env.MustGet("JWT_SECRET")

	conn, err := database.Connect()
	if err != nil {
		debug.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := database.RunMigrations(); err != nil {
		debug.Error("Failed to run migrations: %v", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(conn)
	if err := services.SeedAdmin(context.Background(), userRepo); err != nil {
		debug.Error("Admin seeding failed: %v", err)
		os.Exit(1)
	}

	router := mux.NewRouter()
	routes.Setup(router, conn, cfg)

	emailService, err := email.NewServiceFromEnv()
	if err != nil {
		debug.Error("Failed to initialize email service: %v", err)
		os.Exit(1)
	}

	overdue := services.NewOverdueService(
		repository.NewTransactionRepository(conn),
		emailService,
	)
	if err := overdue.Start(); err != nil {
		debug.Error("Failed to start overdue sweep: %v", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		debug.Info("Listening on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			debug.Error("Server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	debug.Info("Shutting down")
	overdue.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		debug.Error("Graceful shutdown failed: %v", err)
	}
	debug.Info("Server stopped")
}

// loadEnv reads .env from the working directory or its parent. A missing
// file is fine when the environment is already populated.
func loadEnv() {
	if err := godotenv.Load(); err == nil {
		debug.Info("Loaded environment from .env")
		return
	}
	if err := godotenv.Load("../.env"); err == nil {
		debug.Info("Loaded environment from ../.env")
		return
	}
	debug.Debug("No .env file found, using process environment")
}
