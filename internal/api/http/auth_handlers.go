package http

import (
	"net/http"

	"github.com/mind-engage/quizdesk/internal/account"
	auth "github.com/mind-engage/quizdesk/internal/auth/middleware"
)

// POST /auth/signup {name,email,password}
func SignupHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.SignupInput
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		id, err := svc.Signup(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "User created successfully",
			"email":   id.Email,
			"name":    id.Name,
		})
	}
}

// POST /auth/login {email,password}
func LoginHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.LoginInput
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		sess, err := svc.Login(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":      "Login successful",
			"user":         sess.Identity,
			"access_token": sess.AccessToken,
			"token_type":   "Bearer",
			"expires_at":   sess.ExpiresAt,
		})
	}
}

// GET /auth/user, behind JWTMiddleware.
func CurrentUserHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := svc.Me(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": id})
	}
}
