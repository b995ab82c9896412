package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizdesk/internal/delivery"
	"github.com/mind-engage/quizdesk/internal/quiz"
)

// attemptView pairs attempt state with the questions a respondent may see.
type attemptView struct {
	delivery.Snapshot
	Quiz quiz.PublicQuiz `json:"quiz"`
}

// GET /quiz/{quizID}; correct answers are stripped.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.Get(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q.PublicView())
	}
}

// POST /quiz/{quizID}/attempts; each call is a fresh attempt.
func StartAttemptHandler(store quiz.Store, attempts *delivery.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.Get(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		a, err := attempts.Start(r.Context(), q, delivery.StartOptions{})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, attemptView{Snapshot: a.Snapshot(), Quiz: q.PublicView()})
	}
}
