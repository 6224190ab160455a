package routes

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shelfwise/shelfwise-backend/internal/config"
	"github.com/shelfwise/shelfwise-backend/internal/db"
	"github.com/shelfwise/shelfwise-backend/internal/handlers"
	ws "github.com/shelfwise/shelfwise-backend/internal/handlers/websocket"
	"github.com/shelfwise/shelfwise-backend/internal/middleware"
	"github.com/shelfwise/shelfwise-backend/internal/repository"
	"github.com/shelfwise/shelfwise-backend/internal/services"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
)

// Setup wires repositories, services and handlers onto the router and
// returns the hub so the caller can share it with other publishers.
func Setup(router *mux.Router, database *db.DB, cfg *config.Config) *ws.Hub {
	userRepo := repository.NewUserRepository(database)
	bookRepo := repository.NewBookRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)

	hub := ws.NewHub()

	authService := services.NewAuthService(userRepo, cfg.JWTExpiryMinutes)
	bookService := services.NewBookService(bookRepo, hub)
	loanService := services.NewLoanService(database, bookRepo, transactionRepo, userRepo, hub)

	authHandler := handlers.NewAuthHandler(authService)
	bookHandler := handlers.NewBookHandler(bookService)
	transactionHandler := handlers.NewTransactionHandler(loanService)
	userHandler := handlers.NewUserHandler(userRepo)
	statusHandler := handlers.NewStatusHandler(database)
	wsHandler := ws.NewHandler(hub, cfg.AllowedOrigin)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware(cfg.AllowedOrigin))

	router.HandleFunc("/health", statusHandler.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// Public endpoints
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Authenticated endpoints
	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth)
	authed.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	authed.HandleFunc("/auth/profile", userHandler.UpdateMyProfile).Methods(http.MethodPut)
	authed.HandleFunc("/auth/password", userHandler.ChangeMyPassword).Methods(http.MethodPut)
	authed.HandleFunc("/books", bookHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/books/{id}", bookHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/transactions", transactionHandler.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/transactions/borrow", transactionHandler.Borrow).Methods(http.MethodPost)
	authed.HandleFunc("/transactions/return", transactionHandler.Return).Methods(http.MethodPost)
	authed.HandleFunc("/ws", wsHandler.ServeWS).Methods(http.MethodGet)

	// Admin endpoints
	admin := api.NewRoute().Subrouter()
	admin.Use(middleware.RequireAuth, middleware.AdminOnly)
	admin.HandleFunc("/books", bookHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/books/{id}", bookHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/books/{id}", bookHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/transactions/all", transactionHandler.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/users", userHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", userHandler.Get).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/active", userHandler.SetActive).Methods(http.MethodPatch)

	return hub
}

func corsMiddleware(allowedOrigin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		debug.Info("%s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}

// responseWriter captures the status code for request logging. It forwards
// Hijack so the websocket upgrade still works behind the middleware.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}
