package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func noop(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestExactRouting(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/conversations", noop)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/conversations", noop)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/conversations", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNotFound(t *testing.T) {
	r := New(nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWildcardSegment(t *testing.T) {
	r := New(nil)
	var captured string
	r.DELETE("/api/v1/conversations/*", func(w http.ResponseWriter, req *http.Request) {
		captured = req.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/conversations/abc-123", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "/api/v1/conversations/abc-123", captured)
}

func TestExactRouteBeatsWildcard(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/conversations/*", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.GET("/api/v1/conversations/search", noop)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversations/search", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTrailingWildcardMatchesDeepPaths(t *testing.T) {
	require.True(t, matchWildcard("/swagger/index.html", "/swagger/*"))
	require.True(t, matchWildcard("/swagger/css/site.css", "/swagger/*"))
	require.False(t, matchWildcard("/api/v1/chat", "/swagger/*"))
}

func TestSingleWildcardMatchesOneSegment(t *testing.T) {
	require.True(t, matchWildcard("/api/v1/excluded-terms/7", "/api/v1/excluded-terms/*"))
	require.True(t, matchWildcard("/api/v1/s1/turns", "/api/v1/*/turns"))
	require.False(t, matchWildcard("/api/v1/a/b/turns", "/api/v1/*/turns"))
}

func TestMount(t *testing.T) {
	r := New(nil)
	r.Mount("/swagger/*", http.HandlerFunc(noop))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
