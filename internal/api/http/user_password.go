package http

import (
	"net/http"

	"github.com/mind-engage/quizdesk/internal/account"
	authmw "github.com/mind-engage/quizdesk/internal/auth/middleware"
)

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// POST /auth/password {old_password,new_password}
func ChangePasswordHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordReq
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		if err := svc.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
