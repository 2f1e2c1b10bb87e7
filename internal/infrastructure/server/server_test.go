package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/pagehost/internal/infrastructure/config"
	"github.com/GriffinCanCode/pagehost/internal/infrastructure/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func ssrConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.SSR.BundlePath = filepath.Join(dir, "dist", "ssr", "server.js")
	cfg.SSR.AssetsDir = filepath.Join(dir, "dist", "client", "assets")
	cfg.SSR.DefaultStylesheet = filepath.Join(cfg.SSR.AssetsDir, "index.css")
	cfg.SSR.PublicDir = filepath.Join(dir, "public")
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func do(srv *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSSRPage(t *testing.T) {
	cfg := ssrConfig(t)
	writeFile(t, cfg.SSR.BundlePath, `function render() { return "<p>hi</p>"; }`)
	writeFile(t, filepath.Join(cfg.SSR.AssetsDir, "index-3f9a.css"), "body{color:red}")
	srv := newTestServer(t, cfg)

	for _, path := range []string{"/", "/about", "/deep/link"} {
		w := do(srv, http.MethodGet, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

		page, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		html, _ := page.Find("#root").Html()
		assert.Equal(t, "<p>hi</p>", html)
		assert.Equal(t, "body{color:red}", page.Find("style").Text())
	}
}

func TestSSRMissingBundle(t *testing.T) {
	srv := newTestServer(t, ssrConfig(t))

	w := do(srv, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SSR bundle not found")
}

func TestSSRRenderFailureIsCounted(t *testing.T) {
	cfg := ssrConfig(t)
	writeFile(t, cfg.SSR.BundlePath, `function render() { throw new Error("kaput"); }`)
	srv := newTestServer(t, cfg)

	w := do(srv, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "kaput")

	w = do(srv, http.MethodGet, "/metrics")
	assert.Contains(t, w.Body.String(), `pagehost_ssr_renders_total{outcome="EntryPointRuntimeError"} 1`)
}

func TestSSRCache(t *testing.T) {
	cfg := ssrConfig(t)
	cfg.Cache.Enabled = true
	writeFile(t, cfg.SSR.BundlePath, `function render() { return "<p>cached</p>"; }`)
	srv := newTestServer(t, cfg)

	first := do(srv, http.MethodGet, "/")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := do(srv, http.MethodGet, "/")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, "public, max-age=172800", second.Header().Get("Cache-Control"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestAPIAndOperationalRoutes(t *testing.T) {
	cfg := ssrConfig(t)
	writeFile(t, filepath.Join(cfg.SSR.PublicDir, "logo.svg"), `<svg xmlns="http://www.w3.org/2000/svg"/>`)
	writeFile(t, filepath.Join(cfg.SSR.AssetsDir, "client.js"), `console.log("client")`)
	srv := newTestServer(t, cfg)

	w := do(srv, http.MethodGet, "/api/hello")
	assert.JSONEq(t, `{"message":"Hello, world!","method":"GET"}`, w.Body.String())

	w = do(srv, http.MethodPut, "/api/hello")
	assert.JSONEq(t, `{"message":"Hello, world!","method":"PUT"}`, w.Body.String())

	w = do(srv, http.MethodGet, "/api/hello/Grace")
	assert.JSONEq(t, `{"message":"Hello, Grace!"}`, w.Body.String())

	w = do(srv, http.MethodGet, "/logo.svg")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))

	w = do(srv, http.MethodGet, "/assets/client.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "client")

	w = do(srv, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"ssr"`)

	w = do(srv, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pagehost_http_requests_total{method="GET",path="/api/hello",status="200"} 1`)
}

func TestGzipResponses(t *testing.T) {
	cfg := ssrConfig(t)
	writeFile(t, cfg.SSR.BundlePath, `function render() { return "<p>zip</p>"; }`)
	srv := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func manifestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Server.Mode = config.ModeManifest
	cfg.Manifest.Path = filepath.Join(dir, "dist", ".vite", "manifest.json")
	cfg.Manifest.AssetsDir = filepath.Join(dir, "dist", "assets")
	cfg.Manifest.TitlesPath = filepath.Join(dir, "client", "src", "route_titles.json")
	cfg.SSR.PublicDir = filepath.Join(dir, "public")
	return cfg
}

func TestManifestMode(t *testing.T) {
	cfg := manifestConfig(t)
	writeFile(t, cfg.Manifest.Path, `{"src/main.jsx":{"file":"assets/main-1.js","css":["assets/main-1.css"]}}`)
	writeFile(t, cfg.Manifest.TitlesPath, `{"/": "Home", "/about": "About"}`)
	srv := newTestServer(t, cfg)

	w := do(srv, http.MethodGet, "/about")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>About</title>")
	assert.Contains(t, body, `src="/assets/main-1.js"`)
	assert.Contains(t, body, "window.__INITIAL_DATA__")
}

func TestManifestModeMissingEntry(t *testing.T) {
	cfg := manifestConfig(t)
	writeFile(t, cfg.Manifest.Path, `{"src/other.jsx":{"file":"assets/other.js"}}`)
	writeFile(t, cfg.Manifest.TitlesPath, `{}`)
	srv := newTestServer(t, cfg)

	w := do(srv, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Manifest missing 'src/main.jsx' entry. Check vite.config.js input path.", strings.TrimSpace(w.Body.String()))
}

func TestNewFailures(t *testing.T) {
	t.Run("missing manifest", func(t *testing.T) {
		_, err := New(manifestConfig(t), logging.NewNop())
		assert.Error(t, err)
	})

	t.Run("invalid mode", func(t *testing.T) {
		cfg := ssrConfig(t)
		cfg.Server.Mode = "spa"
		_, err := New(cfg, logging.NewNop())
		assert.Error(t, err)
	})

	t.Run("invalid origin", func(t *testing.T) {
		cfg := ssrConfig(t)
		cfg.SSR.Origin = "not a url"
		_, err := New(cfg, logging.NewNop())
		assert.Error(t, err)
	})
}
