package http

import (
	"database/sql"
	"net/http"
)

func Healthz(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

// Readyz fails while the database is unreachable.
func Readyz(dbh *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dbh != nil {
			if err := dbh.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "database unavailable"})
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
