package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	"github.com/shelfwise/shelfwise-backend/pkg/httputil"
)

// respondServiceError maps service-layer error kinds to HTTP status codes.
// Anything unrecognized is a 500 with a generic message; internal detail
// never reaches the response body.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		httputil.RespondWithError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, models.ErrDuplicateUser):
		httputil.RespondWithError(w, http.StatusBadRequest, "Username or email already in use")
	case errors.Is(err, models.ErrDuplicateISBN):
		httputil.RespondWithError(w, http.StatusConflict, "A book with this ISBN already exists")
	case errors.Is(err, models.ErrUserNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, models.ErrBookNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Book not found")
	case errors.Is(err, models.ErrLoanNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "No open loan found")
	case errors.Is(err, models.ErrInvalidCredentials):
		httputil.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, models.ErrAccountDeactivated):
		httputil.RespondWithError(w, http.StatusUnauthorized, "Account is deactivated")
	case errors.Is(err, models.ErrNoCopiesAvailable):
		httputil.RespondWithError(w, http.StatusConflict, "No copies available")
	case errors.Is(err, models.ErrAlreadyReturned):
		httputil.RespondWithError(w, http.StatusConflict, "Loan already returned")
	default:
		debug.Error("Unhandled error on %s %s: %v", r.Method, r.URL.Path, err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// validationMessage keeps the human-readable part of a validation error and
// strips the sentinel prefix.
func validationMessage(err error) string {
	msg := err.Error()
	if rest, found := strings.CutPrefix(msg, models.ErrValidation.Error()+": "); found {
		return rest
	}
	return msg
}
