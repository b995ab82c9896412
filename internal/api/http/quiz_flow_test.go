package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizdesk/internal/delivery"
	"github.com/mind-engage/quizdesk/internal/quiz"
	syncx "github.com/mind-engage/quizdesk/internal/sync"
)

func TestDraftsRequireToken(t *testing.T) {
	h := newHarness(t)
	resp := h.do(http.MethodPost, "/drafts", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDraftsAreOwnerScoped(t *testing.T) {
	h := newHarness(t)
	ann := h.author("ann@example.com")
	bob := h.author("bob@example.com")

	var d quiz.Draft
	h.do(http.MethodPost, "/drafts", ann, nil, &d)
	resp := h.do(http.MethodGet, "/drafts/"+d.ID, bob, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftActionOutOfRange(t *testing.T) {
	h := newHarness(t)
	tok := h.author("ann@example.com")
	var d quiz.Draft
	h.do(http.MethodPost, "/drafts", tok, nil, &d)

	var e map[string]string
	resp := h.do(http.MethodPost, "/drafts/"+d.ID+"/actions", tok,
		map[string]any{"op": "set_prompt", "index": 5, "text": "x"}, &e)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, e["error"], "out of range")
}

func TestPublishTakeAndDownload(t *testing.T) {
	h := newHarness(t)
	tok := h.author("ann@example.com")
	d := h.readyDraft(tok)
	require.Equal(t, 120, d.DurationSeconds)

	var pub quiz.Published
	resp := h.do(http.MethodPost, "/drafts/"+d.ID+"/publish", tok, nil, &pub)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, pub.ID)
	require.Equal(t, "/quiz/"+pub.ID, pub.Locator)

	resp = h.do(http.MethodGet, "/drafts/"+d.ID, tok, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode, "draft is discarded after publish")

	resp = h.do(http.MethodGet, "/quiz/"+pub.ID, "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(body), "Capital of France")
	require.NotContains(t, string(body), "correct_answer")
	require.NotContains(t, string(body), "Paris")

	resp = h.do(http.MethodGet, "/quiz/does-not-exist", "", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var att struct {
		delivery.Snapshot
		Quiz quiz.PublicQuiz `json:"quiz"`
	}
	resp = h.do(http.MethodPost, "/quiz/"+pub.ID+"/attempts", "", nil, &att)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, delivery.PhaseInProgress, att.Phase)
	require.Equal(t, 120, att.RemainingSeconds)
	require.Len(t, att.Quiz.Questions, 2)

	resp = h.do(http.MethodGet, "/attempts/"+att.ID+"/report", "", nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = h.do(http.MethodPut, "/attempts/"+att.ID+"/answers/0", "", map[string]any{"answer": "4"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = h.do(http.MethodPut, "/attempts/"+att.ID+"/answers/1", "", map[string]any{"answer": "paris"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = h.do(http.MethodPut, "/attempts/"+att.ID+"/answers/9", "", map[string]any{"answer": "x"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var done delivery.Snapshot
	resp = h.do(http.MethodPost, "/attempts/"+att.ID+"/submit", "", nil, &done)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, delivery.PhaseSubmitted, done.Phase)
	require.Equal(t, 1, done.TotalCorrect)
	require.Len(t, done.Results, 2)
	require.True(t, done.Results[0].IsCorrect)
	require.False(t, done.Results[1].IsCorrect)

	var again delivery.Snapshot
	h.do(http.MethodPost, "/attempts/"+att.ID+"/submit", "", nil, &again)
	require.Equal(t, done.TotalCorrect, again.TotalCorrect)

	evs, err := h.events.ByKey(context.Background(), att.ID)
	require.NoError(t, err)
	require.Len(t, evs, 1, "second submit records nothing")
	require.Equal(t, syncx.TypeAttemptSubmitted, evs[0].Type)

	evs, err = h.events.ByKey(context.Background(), pub.ID)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, syncx.TypeQuizPublished, evs[0].Type)

	for i := 0; i < 2; i++ {
		resp = h.do(http.MethodGet, "/attempts/"+att.ID+"/report", "", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		require.Equal(t, `attachment; filename="quiz-results-`+pub.ID+`.pdf"`, resp.Header.Get("Content-Disposition"))
		pdf, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	}
}

func TestPublishRejectsIncompleteDraft(t *testing.T) {
	h := newHarness(t)
	tok := h.author("ann@example.com")
	var d quiz.Draft
	h.do(http.MethodPost, "/drafts", tok, nil, &d)

	resp := h.do(http.MethodPost, "/drafts/"+d.ID+"/publish", tok, nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = h.do(http.MethodGet, "/drafts/"+d.ID, tok, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "failed publish keeps the draft")
}

func TestPreviewLocksDraftUntilSubmitted(t *testing.T) {
	h := newHarness(t)
	tok := h.author("ann@example.com")
	d := h.readyDraft(tok)

	var att delivery.Snapshot
	resp := h.do(http.MethodPost, "/drafts/"+d.ID+"/preview", tok, nil, &att)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, d.ID, att.DraftID)

	resp = h.do(http.MethodPost, "/drafts/"+d.ID+"/preview", tok, nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	locked := h.action(tok, d.ID, map[string]any{"op": "set_prompt", "index": 0, "text": "changed"})
	require.True(t, locked.Locked)
	require.Equal(t, "2+2?", locked.Questions[0].Prompt)

	h.do(http.MethodPost, "/attempts/"+att.ID+"/submit", "", nil, nil)

	open := h.action(tok, d.ID, map[string]any{"op": "set_prompt", "index": 0, "text": "changed"})
	require.False(t, open.Locked)
	require.Equal(t, "changed", open.Questions[0].Prompt)
}

func TestImportDraftYAML(t *testing.T) {
	h := newHarness(t)
	tok := h.author("ann@example.com")
	doc := strings.Join([]string{
		"duration_minutes: 3",
		"questions:",
		"  - kind: mcq",
		"    prompt: Capital of France?",
		"    choices: [Paris, Rome]",
		"    answer: Paris",
	}, "\n")

	req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/drafts/import", strings.NewReader(doc))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-yaml")
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := h.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var pub quiz.Published
	var d quiz.Draft
	require.NoError(t, jsonDecode(resp.Body, &d))
	require.Equal(t, 180, d.DurationSeconds)
	resp2 := h.do(http.MethodPost, "/drafts/"+d.ID+"/publish", tok, nil, &pub)
	require.Equal(t, http.StatusCreated, resp2.StatusCode)
}

func TestContact(t *testing.T) {
	h := newHarness(t)
	var out map[string]string
	resp := h.do(http.MethodPost, "/contact", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "hello",
	}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	evs, err := h.events.ByKey(context.Background(), out["id"])
	require.NoError(t, err)
	require.Len(t, evs, 1)

	resp = h.do(http.MethodPost, "/contact", "", map[string]string{"name": "Ada"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProbes(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/healthz", "", nil, nil).StatusCode)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/readyz", "", nil, nil).StatusCode)
}
