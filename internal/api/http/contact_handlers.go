package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/quizdesk/internal/apperr"
	syncx "github.com/mind-engage/quizdesk/internal/sync"
	"github.com/mind-engage/quizdesk/internal/validator"
)

// POST /contact {name,email,message}
func ContactHandler(dbh *sql.DB, events *syncx.Recorder, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name    string `json:"name"`
			Email   string `json:"email"`
			Message string `json:"message"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Message = strings.TrimSpace(req.Message)
		if req.Name == "" || req.Email == "" || req.Message == "" {
			writeError(w, apperr.E(apperr.Validation, "All fields are required"))
			return
		}
		if !validator.ValidEmail(req.Email) {
			writeError(w, apperr.E(apperr.InvalidFormat, "Invalid email format"))
			return
		}
		id := uuid.NewString()
		email := validator.NormalizeEmail(req.Email)
		if _, err := dbh.ExecContext(r.Context(),
			`INSERT INTO contact_messages(id,name,email,message,created_at) VALUES($1,$2,$3,$4,$5)`,
			id, req.Name, email, req.Message, time.Now().Unix()); err != nil {
			writeError(w, apperr.Wrap(apperr.Internal, "store message", err))
			return
		}
		record(r, events, logger, syncx.TypeContactMessage, id, map[string]string{
			"id":    id,
			"name":  req.Name,
			"email": email,
		})
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Message received", "id": id})
	}
}
