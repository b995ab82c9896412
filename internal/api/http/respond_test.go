package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizdesk/internal/apperr"
)

func jsonDecode(r io.Reader, v any) error { return json.NewDecoder(r).Decode(v) }

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperr.E(apperr.Validation, "missing"), http.StatusBadRequest, "missing"},
		{apperr.E(apperr.WeakPassword, "weak"), http.StatusBadRequest, "weak"},
		{apperr.E(apperr.Conflict, "dup"), http.StatusBadRequest, "dup"},
		{apperr.E(apperr.NotFound, "gone"), http.StatusNotFound, "gone"},
		{apperr.E(apperr.Unauthorized, "no"), http.StatusUnauthorized, "no"},
		{errors.New("db exploded"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		writeError(rr, c.err)
		require.Equal(t, c.status, rr.Code)
		var body map[string]string
		require.NoError(t, jsonDecode(rr.Body, &body))
		require.Equal(t, c.msg, body["error"])
	}
}
