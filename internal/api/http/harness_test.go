package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/quizdesk/internal/account"
	auth "github.com/mind-engage/quizdesk/internal/auth/middleware"
	"github.com/mind-engage/quizdesk/internal/db"
	"github.com/mind-engage/quizdesk/internal/delivery"
	"github.com/mind-engage/quizdesk/internal/quiz"
	"github.com/mind-engage/quizdesk/internal/storage"
	syncx "github.com/mind-engage/quizdesk/internal/sync"
)

type harness struct {
	t      *testing.T
	srv    *httptest.Server
	events *syncx.EventRepo
	drafts *quiz.DraftStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })

	blobs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	authSvc := auth.NewAuthService("test-secret", time.Hour)
	repo := syncx.NewEventRepo(dbh)
	rec := &syncx.Recorder{Log: repo}
	quizzes := quiz.NewSQLStore(dbh)
	drafts := quiz.NewDraftStore()

	mgr := delivery.NewManager(nil,
		delivery.WithRetention(0),
		delivery.WithOnSubmit(RecordSubmissions(rec, nil)),
	)
	t.Cleanup(mgr.Close)

	r := NewRouter(Deps{
		DB: dbh,
		Accounts: &account.Service{
			Users:    account.NewSQLStore(dbh),
			Tokens:   authSvc,
			Cost:     bcrypt.MinCost,
			TokenTTL: time.Hour,
		},
		Auth:               authSvc,
		Drafts:             drafts,
		Quizzes:            quizzes,
		Publisher:          &quiz.Publisher{Store: quizzes},
		Attempts:           mgr,
		Blobs:              blobs,
		Events:             rec,
		DefaultDurationSec: 120,
		EnablePreview:      true,
		CORSOrigins:        []string{"http://localhost:3000"},
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &harness{t: t, srv: srv, events: repo, drafts: drafts}
}

// do sends body as JSON (unless it is already a []byte) and decodes a JSON
// response into out when out is non-nil.
func (h *harness) do(method, path, token string, body any, out any) *http.Response {
	h.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rd = bytes.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(h.t, err)
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, rd)
	require.NoError(h.t, err)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.srv.Client().Do(req)
	require.NoError(h.t, err)
	h.t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(h.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// author signs up and logs in, returning a bearer token.
func (h *harness) author(email string) string {
	h.t.Helper()
	resp := h.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Author", "email": email, "password": "secret1",
	}, nil)
	require.Equal(h.t, http.StatusCreated, resp.StatusCode)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	resp = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "secret1",
	}, &login)
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(h.t, login.AccessToken)
	return login.AccessToken
}

func (h *harness) action(token, draftID string, a map[string]any) quiz.Draft {
	h.t.Helper()
	var d quiz.Draft
	resp := h.do(http.MethodPost, "/drafts/"+draftID+"/actions", token, a, &d)
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
	return d
}

// readyDraft builds a publishable two-question draft over HTTP.
func (h *harness) readyDraft(token string) quiz.Draft {
	h.t.Helper()
	var d quiz.Draft
	resp := h.do(http.MethodPost, "/drafts", token, nil, &d)
	require.Equal(h.t, http.StatusCreated, resp.StatusCode)
	require.Len(h.t, d.Questions, 1)

	h.action(token, d.ID, map[string]any{"op": "set_prompt", "index": 0, "text": "2+2?"})
	for j, c := range []string{"3", "4", "5", "6"} {
		h.action(token, d.ID, map[string]any{"op": "set_choice", "index": 0, "slot": j, "text": c})
	}
	h.action(token, d.ID, map[string]any{"op": "set_correct_answer", "index": 0, "text": "4"})
	h.action(token, d.ID, map[string]any{"op": "add_question"})
	h.action(token, d.ID, map[string]any{"op": "set_type", "index": 1, "kind": "fill_blank"})
	h.action(token, d.ID, map[string]any{"op": "set_prompt", "index": 1, "text": "Capital of France"})
	h.action(token, d.ID, map[string]any{"op": "set_correct_answer", "index": 1, "text": "Paris"})
	return h.action(token, d.ID, map[string]any{"op": "set_duration", "minutes": "2"})
}
