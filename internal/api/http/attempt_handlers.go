package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizdesk/internal/apperr"
	"github.com/mind-engage/quizdesk/internal/delivery"
	"github.com/mind-engage/quizdesk/internal/quiz"
	syncx "github.com/mind-engage/quizdesk/internal/sync"
)

func GetAttemptHandler(attempts *delivery.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := attempts.Get(chi.URLParam(r, "attemptID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, attemptView{Snapshot: a.Snapshot(), Quiz: a.Quiz().PublicView()})
	}
}

// PUT /attempts/{attemptID}/answers/{index} {"answer": "x" | ["a","b"]}
func SaveAnswerHandler(attempts *delivery.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := attempts.Get(chi.URLParam(r, "attemptID"))
		if err != nil {
			writeError(w, err)
			return
		}
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, apperr.E(apperr.Validation, "index must be an integer"))
			return
		}
		var req struct {
			Answer quiz.Answer `json:"answer"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := a.Answer(idx, req.Answer); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a.Snapshot())
	}
}

// POST /attempts/{attemptID}/submit; repeating it returns the first result.
func SubmitAttemptHandler(attempts *delivery.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := attempts.Get(chi.URLParam(r, "attemptID"))
		if err != nil {
			writeError(w, err)
			return
		}
		snap, _, err := a.Submit(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// RecordSubmissions returns a delivery hook that logs each graded attempt
// as an attempt.submitted event.
func RecordSubmissions(events *syncx.Recorder, logger *slog.Logger) func(delivery.Snapshot) {
	return func(s delivery.Snapshot) {
		if events == nil {
			return
		}
		e, err := syncx.NewEvent(syncx.TypeAttemptSubmitted, s.ID, map[string]any{
			"attempt_id":     s.ID,
			"quiz_id":        s.QuizID,
			"total_correct":  s.TotalCorrect,
			"question_count": s.QuestionCount,
			"auto_submitted": s.AutoSubmitted,
		})
		if err == nil {
			err = events.Record(context.Background(), e)
		}
		if err != nil && logger != nil {
			logger.Error("record submission", slog.String("attempt_id", s.ID), slog.Any("err", err))
		}
	}
}
