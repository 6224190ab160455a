package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shelfwise/shelfwise-backend/internal/services"
	"github.com/shelfwise/shelfwise-backend/pkg/httputil"
)

// BookHandler exposes the book catalog endpoints
type BookHandler struct {
	books *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(books *services.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// List handles GET /api/books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, books)
}

// Get handles GET /api/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, book)
}

// Create handles POST /api/books (admin only)
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.BookInput
	if err := httputil.ParseJSONBody(r, &input); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.books.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, book)
}

// Update handles PUT /api/books/{id} (admin only)
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input services.BookInput
	if err := httputil.ParseJSONBody(r, &input); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	book, err := h.books.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/books/{id} (admin only)
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.books.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
}

// pathID parses the {id} route variable, answering 400 itself on bad input
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
