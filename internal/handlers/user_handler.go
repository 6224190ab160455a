package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shelfwise/shelfwise-backend/internal/middleware"
	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/internal/repository"
	"github.com/shelfwise/shelfwise-backend/pkg/httputil"
	"github.com/shelfwise/shelfwise-backend/pkg/password"
)

// UserHandler exposes the admin-only member management endpoints
type UserHandler struct {
	users *repository.UserRepository
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /api/users (admin only)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	profiles := make([]models.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	httputil.RespondWithJSON(w, http.StatusOK, profiles)
}

// Get handles GET /api/users/{id} (admin only)
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, user.Profile())
}

type updateProfileRequest struct {
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	PhoneNumber string         `json:"phoneNumber"`
	Address     models.Address `json:"address"`
}

// UpdateMyProfile handles PUT /api/auth/profile for the authenticated caller.
// Identity fields and the password hash are out of reach here.
func (h *UserHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		httputil.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req updateProfileRequest
	if err := httputil.ParseJSONBody(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		httputil.RespondWithError(w, http.StatusBadRequest, "First name and last name are required")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.PhoneNumber = req.PhoneNumber
	user.Address = req.Address

	if err := h.users.UpdateProfile(r.Context(), user); err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, user.Profile())
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangeMyPassword handles PUT /api/auth/password for the authenticated
// caller. The current password must check out before the hash is rewritten.
func (h *UserHandler) ChangeMyPassword(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		httputil.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req changePasswordRequest
	if err := httputil.ParseJSONBody(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := password.Validate(req.NewPassword); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !user.CheckPassword(req.CurrentPassword) {
		httputil.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.users.UpdatePassword(r.Context(), id, req.NewPassword); err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

// SetActive handles PATCH /api/users/{id}/active (admin only). Deactivation
// stands in for deletion; the record stays on file.
func (h *UserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req setActiveRequest
	if err := httputil.ParseJSONBody(r, &req); err != nil || req.IsActive == nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "isActive is required")
		return
	}

	if err := h.users.SetActive(r.Context(), id, *req.IsActive); err != nil {
		respondServiceError(w, r, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, user.Profile())
}
