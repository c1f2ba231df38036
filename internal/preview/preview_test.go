package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thought2/blog/internal/config"
)

func previewConfig(t *testing.T, basePath string) *config.Config {
	t.Helper()
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "index.html"), []byte("<html>home</html>"), 0o644))

	return &config.Config{
		Site:   config.SiteConfig{Title: "Blog", BasePath: basePath},
		Source: t.TempDir(),
		Output: config.OutputConfig{Directory: outputDir},
	}
}

func TestHealthz_NoBuildYet_ReturnsUnavailable(t *testing.T) {
	server := newHTTPServer(previewConfig(t, ""), Options{Port: 0}, &buildStatus{})

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz_AfterSuccessfulBuild_ReturnsOK(t *testing.T) {
	status := &buildStatus{}
	status.setSuccess()
	server := newHTTPServer(previewConfig(t, ""), Options{Port: 0}, status)

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestHealthz_AfterFailedBuild_ReportsError(t *testing.T) {
	status := &buildStatus{}
	status.setSuccess()
	status.setError(errors.New("render failed"))
	server := newHTTPServer(previewConfig(t, ""), Options{Port: 0}, status)

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "render failed")
}

func TestFileServer_ServesOutputAtRoot(t *testing.T) {
	server := newHTTPServer(previewConfig(t, ""), Options{Port: 0}, &buildStatus{})

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "home")
}

func TestFileServer_BasePath_ServesUnderPrefixAndRedirectsRoot(t *testing.T) {
	server := newHTTPServer(previewConfig(t, "/blog"), Options{Port: 0}, &buildStatus{})

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "home")

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/blog/", rec.Header().Get("Location"))
}

func TestMetricsEndpoint_OnlyMountedWhenConfigured(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := newHTTPServer(previewConfig(t, ""), Options{Port: 0, Metrics: metricsHandler}, &buildStatus{})

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServe_GitSource_ReturnsError(t *testing.T) {
	cfg := previewConfig(t, "")
	cfg.Source = "https://example.com/repo.git"

	err := Serve(context.Background(), cfg, Options{Port: 0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "local source directory")
}
