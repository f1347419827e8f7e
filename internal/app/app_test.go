package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skoushik/storefront-orders/internal/app"
	"github.com/skoushik/storefront-orders/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newApp(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conf := config.New()

	a := app.New(logger, conf)
	a.SetHTTPHandlers(pingHandler{})
	a.SetHealthCheck(func(context.Context) error { return nil })

	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)
	return srv
}

type pingHandler struct{}

func (pingHandler) Init(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAppRouting(t *testing.T) {
	srv := newApp(t)

	t.Run("mounted handler", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/ping")
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/metrics")
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestHealthFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a := app.New(logger, config.New())
	a.SetHealthCheck(func(context.Context) error { return errors.New("db unreachable") })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
