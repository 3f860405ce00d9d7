package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newBackend(t *testing.T) string {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/api/isAdmin", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"isAdmin": true}`))
	})
	r.Get("/api/carts/get-cart-items", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "not signed in"}`))
	})
	r.Post("/api/carts/add-item-to-cart", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "out of stock"}`))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRun(t *testing.T) {
	baseURL := newBackend(t)

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "NoCommand",
			args:       nil,
			wantCode:   2,
			wantStderr: "usage: storefront",
		},
		{
			name:       "UnknownCommand",
			args:       []string{"checkout"},
			wantCode:   2,
			wantStderr: `unknown command "checkout"`,
		},
		{
			name:       "MissingArgument",
			args:       []string{"--api-url", baseURL, "product"},
			wantCode:   2,
			wantStderr: "usage: storefront product <slug>",
		},
		{
			name:       "IsAdmin",
			args:       []string{"--api-url", baseURL, "is-admin"},
			wantCode:   0,
			wantStdout: "true",
		},
		{
			name:       "ServerMessage",
			args:       []string{"--api-url", baseURL, "cart-add", "v1"},
			wantCode:   1,
			wantStderr: "out of stock",
		},
		{
			name:       "Unauthorized",
			args:       []string{"--api-url", baseURL, "cart"},
			wantCode:   exitUnauthorized,
			wantStderr: "api.session_token",
		},
		{
			name:       "LocalValidation",
			args:       []string{"--api-url", baseURL, "cart-add", "--quantity", "0", "v1"},
			wantCode:   1,
			wantStderr: "quantity must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code, stderr.String())
			assert.Contains(t, stdout.String(), tt.wantStdout)
			assert.Contains(t, stderr.String(), tt.wantStderr)
		})
	}
}

func TestParsePrice(t *testing.T) {
	v, err := parsePrice("")
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = parsePrice("12.5")
	assert.NoError(t, err)
	if assert.NotNil(t, v) {
		assert.Equal(t, 12.5, *v)
	}

	_, err = parsePrice("cheap")
	assert.Error(t, err)

	for _, in := range []string{"NaN", "Inf", "-Inf"} {
		_, err = parsePrice(in)
		assert.Error(t, err, in)
	}
}
