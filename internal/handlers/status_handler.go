package handlers

import (
	"net/http"
	"time"

	"github.com/shelfwise/shelfwise-backend/internal/db"
	"github.com/shelfwise/shelfwise-backend/pkg/httputil"
)

// StatusHandler answers the health probe
type StatusHandler struct {
	db *db.DB
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(database *db.DB) *StatusHandler {
	return &StatusHandler{db: database}
}

// Health handles GET /health. It reports OK as long as the process is up and
// the database answers a ping.
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			httputil.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":    "DEGRADED",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
