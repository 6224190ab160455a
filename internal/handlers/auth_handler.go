package handlers

import (
	"net/http"

	"github.com/shelfwise/shelfwise-backend/internal/middleware"
	"github.com/shelfwise/shelfwise-backend/internal/services"
	"github.com/shelfwise/shelfwise-backend/pkg/httputil"
)

// AuthHandler exposes registration, login and the current-user lookup
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := httputil.ParseJSONBody(r, &input); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.auth.Register(r.Context(), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.ParseJSONBody(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, result)
}

// Me handles GET /api/auth/me for the authenticated caller
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.auth.Me(r.Context(), middleware.GetUserID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, profile)
}
