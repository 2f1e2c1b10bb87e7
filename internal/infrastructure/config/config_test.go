package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, ModeSSR, cfg.Server.Mode)

	assert.Equal(t, "dist/ssr/server.js", cfg.SSR.BundlePath)
	assert.Equal(t, "dist/client/assets", cfg.SSR.AssetsDir)
	assert.Equal(t, "*.css", cfg.SSR.StylesheetPattern)
	assert.Equal(t, "render", cfg.SSR.EntryPoint)
	assert.Zero(t, cfg.SSR.RenderTimeout)

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 48*time.Hour, cfg.Cache.TTL)

	assert.Equal(t, "src/main.jsx", cfg.Manifest.Entry)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.True(t, cfg.Compression.Enabled)
	assert.NoError(t, cfg.Validate())
}

var envKeys = []string{
	"PORT", "HOST", "PAGE_MODE",
	"SSR_BUNDLE_PATH", "SSR_ASSETS_DIR", "SSR_STYLESHEET_PATTERN", "SSR_DEFAULT_STYLESHEET",
	"SSR_CLIENT_SCRIPT", "SSR_PUBLIC_DIR", "SSR_ENTRY_POINT", "SSR_ORIGIN", "SSR_NODE_ENV",
	"SSR_RENDER_TIMEOUT", "SSR_MAX_CALL_STACK", "SSR_CAPTURE_CONSOLE", "SSR_TITLE",
	"SSR_CACHE_ENABLED", "SSR_CACHE_TTL", "SSR_CACHE_CLEANUP",
	"MANIFEST_PATH", "MANIFEST_ENTRY", "MANIFEST_ASSETS_DIR", "ROUTE_TITLES_PATH",
	"DEFAULT_TITLE", "INITIAL_DATA_MESSAGE",
	"LOG_LEVEL", "LOG_DEV", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_ENABLED",
	"CORS_ORIGINS", "GZIP_ENABLED",
}

// clearEnv unsets every configuration variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadMatchesDefault(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                "9000",
		"HOST":                "127.0.0.1",
		"PAGE_MODE":           "manifest",
		"SSR_BUNDLE_PATH":     "build/server.js",
		"SSR_RENDER_TIMEOUT":  "2s",
		"SSR_CAPTURE_CONSOLE": "true",
		"SSR_CACHE_ENABLED":   "true",
		"SSR_CACHE_TTL":       "10m",
		"MANIFEST_ENTRY":      "src/index.tsx",
		"LOG_LEVEL":           "debug",
		"LOG_DEV":             "true",
		"RATE_LIMIT_RPS":      "500",
		"RATE_LIMIT_ENABLED":  "false",
		"CORS_ORIGINS":        "https://a.example,https://b.example",
		"GZIP_ENABLED":        "false",
	}
	clearEnv(t)
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, ModeManifest, cfg.Server.Mode)
	assert.Equal(t, "build/server.js", cfg.SSR.BundlePath)
	assert.Equal(t, 2*time.Second, cfg.SSR.RenderTimeout)
	assert.True(t, cfg.SSR.CaptureConsole)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "src/index.tsx", cfg.Manifest.Entry)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	assert.False(t, cfg.Compression.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown mode", "PAGE_MODE", "spa"},
		{"bad duration", "SSR_RENDER_TIMEOUT", "soon"},
		{"negative timeout", "SSR_RENDER_TIMEOUT", "-1s"},
		{"bad bool", "SSR_CACHE_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)

			cfg := LoadOrDefault()
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestValidateCacheTTL(t *testing.T) {
	cfg := Default()
	cfg.Cache.Enabled = true
	cfg.Cache.TTL = 0
	assert.Error(t, cfg.Validate())
}
