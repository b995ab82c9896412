package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizdesk/internal/apperr"
	auth "github.com/mind-engage/quizdesk/internal/auth/middleware"
	"github.com/mind-engage/quizdesk/internal/delivery"
	"github.com/mind-engage/quizdesk/internal/quiz"
	syncx "github.com/mind-engage/quizdesk/internal/sync"
)

// POST /drafts {duration_seconds?}
func CreateDraftHandler(drafts *quiz.DraftStore, defaultDurationSec int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DurationSeconds int `json:"duration_seconds"`
		}
		if r.ContentLength > 0 {
			if err := decodeJSON(w, r, &req); err != nil {
				writeError(w, err)
				return
			}
		}
		dur := req.DurationSeconds
		if dur <= 0 {
			dur = defaultDurationSec
		}
		d := drafts.Create(auth.SubjectFromContext(r.Context()), dur)
		writeJSON(w, http.StatusCreated, d)
	}
}

// POST /drafts/import; YAML or JSON body, chosen by ?format= or Content-Type.
func ImportDraftHandler(drafts *quiz.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			ct := r.Header.Get("Content-Type")
			if strings.Contains(ct, "yaml") {
				format = "yaml"
			} else {
				format = "json"
			}
		}
		d, err := quiz.LoadDraft(http.MaxBytesReader(w, r.Body, maxBodyBytes), format)
		if err != nil {
			writeError(w, err)
			return
		}
		d.ID = ""
		d.OwnerID = auth.SubjectFromContext(r.Context())
		writeJSON(w, http.StatusCreated, drafts.Put(d))
	}
}

func GetDraftHandler(drafts *quiz.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := drafts.Get(chi.URLParam(r, "draftID"), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// POST /drafts/{draftID}/actions {op,index,slot,kind,text,minutes}
func DraftActionHandler(drafts *quiz.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a quiz.Action
		if err := decodeJSON(w, r, &a); err != nil {
			writeError(w, err)
			return
		}
		d, err := drafts.Apply(chi.URLParam(r, "draftID"), auth.SubjectFromContext(r.Context()), a)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// POST /drafts/{draftID}/publish. The draft is discarded once the quiz is stored.
func PublishDraftHandler(drafts *quiz.DraftStore, pub *quiz.Publisher, events *syncx.Recorder, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "draftID")
		d, err := drafts.Get(id, auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		p, err := pub.Publish(r.Context(), d)
		if err != nil {
			writeError(w, err)
			return
		}
		drafts.Delete(id)
		record(r, events, logger, syncx.TypeQuizPublished, p.ID, map[string]any{
			"quiz_id":   p.ID,
			"owner_id":  d.OwnerID,
			"questions": len(d.Questions),
		})
		writeJSON(w, http.StatusCreated, p)
	}
}

// POST /drafts/{draftID}/preview starts an attempt against the unpublished
// draft and locks it until that attempt is submitted.
func PreviewDraftHandler(drafts *quiz.DraftStore, attempts *delivery.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "draftID")
		d, err := drafts.Get(id, auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		if d.Locked {
			writeError(w, apperr.E(apperr.Conflict, "a preview of this draft is already running"))
			return
		}
		if err := quiz.Validate(d); err != nil {
			writeError(w, err)
			return
		}
		q := quiz.PublishedQuiz{
			ID:              "preview-" + d.ID,
			OwnerID:         d.OwnerID,
			Questions:       d.Clone().Questions,
			DurationSeconds: d.DurationSeconds,
		}
		drafts.SetLocked(id, true)
		a, err := attempts.Start(r.Context(), q, delivery.StartOptions{
			DraftID:  id,
			OnSubmit: func(delivery.Snapshot) { drafts.SetLocked(id, false) },
		})
		if err != nil {
			drafts.SetLocked(id, false)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, attemptView{Snapshot: a.Snapshot(), Quiz: q.PublicView()})
	}
}

func record(r *http.Request, events *syncx.Recorder, logger *slog.Logger, typ, key string, payload any) {
	if events == nil {
		return
	}
	e, err := syncx.NewEvent(typ, key, payload)
	if err == nil {
		err = events.Record(r.Context(), e)
	}
	if err != nil && logger != nil {
		logger.Error("record event", slog.String("type", typ), slog.String("key", key), slog.Any("err", err))
	}
}
