package http

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignupLoginUser(t *testing.T) {
	h := newHarness(t)

	var created map[string]any
	resp := h.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ann", "email": "Ann@Example.com", "password": "secret1",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "ann@example.com", created["email"])
	require.NotContains(t, created, "password")
	require.NotContains(t, created, "password_hash")

	var e map[string]string
	resp = h.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	}, &e)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Email already exists", e["error"])

	resp = h.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "123",
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ann@example.com", "password": "nope-nope",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.do(http.MethodPost, "/auth/login", "", []byte("{"), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var login struct {
		Message     string            `json:"message"`
		User        map[string]string `json:"user"`
		AccessToken string            `json:"access_token"`
	}
	resp = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ann@example.com", "password": "secret1",
	}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Login successful", login.Message)
	require.Equal(t, "Ann", login.User["name"])
	require.NotContains(t, login.User, "password_hash")

	resp = h.do(http.MethodGet, "/auth/user", "ann@example.com", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.do(http.MethodGet, "/auth/user", login.AccessToken, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"email":"ann@example.com"`)
	require.NotContains(t, string(body), "$2a$")
}

func TestChangePassword(t *testing.T) {
	h := newHarness(t)
	tok := h.author("ann@example.com")

	resp := h.do(http.MethodPost, "/auth/password", tok, map[string]string{
		"old_password": "wrong", "new_password": "newsecret",
	}, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.do(http.MethodPost, "/auth/password", tok, map[string]string{
		"old_password": "secret1", "new_password": "newsecret",
	}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ann@example.com", "password": "newsecret",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
