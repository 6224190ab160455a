package middleware

import (
	"net/http"

	"github.com/shelfwise/shelfwise-backend/internal/models"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
	"github.com/shelfwise/shelfwise-backend/pkg/httputil"
)

// AdminOnly rejects callers whose token does not carry the admin role. It
// must run inside RequireAuth.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserRole(r) != models.RoleAdmin {
			debug.Debug("Non-admin user %s denied access to %s", GetUserID(r), r.URL.Path)
			httputil.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
