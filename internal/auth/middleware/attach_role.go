package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/quizdesk/internal/rbac"
)

// AttachRoleFromDB replaces the token's role claim with the one stored for
// the subject, so demotions apply before a token expires. A subject that no
// longer exists is rejected. With allowClaimFallback the claim is kept when
// the lookup itself fails.
func AttachRoleFromDB(db *sql.DB, allowClaimFallback bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := SubjectFromContext(ctx)

			var role string
			err := db.QueryRowContext(ctx, `SELECT role FROM users WHERE id=$1`, sub).Scan(&role)
			switch {
			case err == nil && role != "":
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
			case errors.Is(err, sql.ErrNoRows):
				unauthorized(w, "unknown subject")
			case err != nil && allowClaimFallback && rbac.RoleFromContext(ctx) != "":
				next.ServeHTTP(w, r)
			default:
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			}
		})
	}
}
