package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shelfwise/shelfwise-backend/internal/middleware"
	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/internal/services"
	"github.com/shelfwise/shelfwise-backend/pkg/httputil"
)

// TransactionHandler exposes the borrow/return endpoints
type TransactionHandler struct {
	loans *services.LoanService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(loans *services.LoanService) *TransactionHandler {
	return &TransactionHandler{loans: loans}
}

type loanRequest struct {
	BookID string `json:"bookId"`
}

// Borrow handles POST /api/transactions/borrow for the authenticated caller
func (h *TransactionHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := h.parseLoanRequest(w, r)
	if !ok {
		return
	}

	loan, err := h.loans.Borrow(r.Context(), userID, bookID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, loan)
}

// Return handles POST /api/transactions/return for the authenticated caller
func (h *TransactionHandler) Return(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := h.parseLoanRequest(w, r)
	if !ok {
		return
	}

	loan, err := h.loans.Return(r.Context(), userID, bookID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, loan)
}

// ListMine handles GET /api/transactions for the authenticated caller
func (h *TransactionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		httputil.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	loans, err := h.loans.ListForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if loans == nil {
		loans = []models.Transaction{}
	}
	httputil.RespondWithJSON(w, http.StatusOK, loans)
}

// ListAll handles GET /api/transactions/all (admin only)
func (h *TransactionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loans.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if loans == nil {
		loans = []models.Transaction{}
	}
	httputil.RespondWithJSON(w, http.StatusOK, loans)
}

func (h *TransactionHandler) parseLoanRequest(w http.ResponseWriter, r *http.Request) (userID, bookID uuid.UUID, ok bool) {
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		httputil.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return uuid.Nil, uuid.Nil, false
	}

	var req loanRequest
	if err := httputil.ParseJSONBody(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return uuid.Nil, uuid.Nil, false
	}

	bookID, err = uuid.Parse(req.BookID)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid book id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, bookID, true
}
