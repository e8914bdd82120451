package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/exports/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/exports/*", "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/exports/abc/def.json", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/exports/*", "404"))
	assert.Equal(t, before+1, after)
}

func TestHandler_ExposesCounters(t *testing.T) {
	t.Parallel()

	RecordAuth("login", "success")
	RecordEntrySaved("good")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "emotionlog_auth_attempts_total")
	assert.Contains(t, string(body), "emotionlog_entries_saved_total")
}
