package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.Config {
	var cfg config.Config
	cfg.API.BaseURL = baseURL
	cfg.API.Prefix = "/api"
	cfg.API.Timeout = time.Second
	cfg.API.LoginPath = "/login"
	cfg.API.SessionCookieName = "token"
	cfg.API.SessionToken = "secret"
	cfg.Query.StaleTime = time.Minute
	cfg.Query.GCTime = time.Minute
	cfg.Query.Retry = 0
	cfg.Query.MutationRetry = 0
	return cfg
}

func TestApp(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/isAdmin", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("token")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "secret", c.Value)
		_, _ = w.Write([]byte(`{"isAdmin": true}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(t.Context())
	a := New(ctx, testConfig(srv.URL))
	assert.IsType(t, kafka.Noop{}, a.events)

	a.Run()

	res, err := a.Service.IsAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, res.Data)

	cancel()
	a.Close()
}

func TestAppInvalidBaseURL(t *testing.T) {
	assert.Panics(t, func() {
		New(t.Context(), testConfig("not a url"))
	})
}

func TestLoginNavigatorURL(t *testing.T) {
	n := newLoginNavigator("http://localhost:5000/", "/login")
	assert.Equal(t, "http://localhost:5000/login", n.url)
}
