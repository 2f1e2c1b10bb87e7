package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Page modes.
const (
	ModeSSR      = "ssr"
	ModeManifest = "manifest"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	SSR         SSRConfig
	Cache       CacheConfig
	Manifest    ManifestConfig
	Logging     LogConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Compression CompressionConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Mode string `envconfig:"PAGE_MODE" default:"ssr"`
}

// SSRConfig locates the server bundle and configures the script engine.
type SSRConfig struct {
	BundlePath        string        `envconfig:"SSR_BUNDLE_PATH" default:"dist/ssr/server.js"`
	AssetsDir         string        `envconfig:"SSR_ASSETS_DIR" default:"dist/client/assets"`
	StylesheetPattern string        `envconfig:"SSR_STYLESHEET_PATTERN" default:"*.css"`
	DefaultStylesheet string        `envconfig:"SSR_DEFAULT_STYLESHEET" default:"dist/client/assets/index.css"`
	ClientScript      string        `envconfig:"SSR_CLIENT_SCRIPT" default:"/assets/client.js"`
	PublicDir         string        `envconfig:"SSR_PUBLIC_DIR" default:"frontend/public"`
	EntryPoint        string        `envconfig:"SSR_ENTRY_POINT" default:"render"`
	Origin            string        `envconfig:"SSR_ORIGIN" default:"http://localhost:8080"`
	NodeEnv           string        `envconfig:"SSR_NODE_ENV" default:"production"`
	RenderTimeout     time.Duration `envconfig:"SSR_RENDER_TIMEOUT" default:"0s"`
	MaxCallStackSize  int           `envconfig:"SSR_MAX_CALL_STACK" default:"0"`
	CaptureConsole    bool          `envconfig:"SSR_CAPTURE_CONSOLE" default:"false"`
	Title             string        `envconfig:"SSR_TITLE" default:"Vite + React + Go (SSR)"`
}

// CacheConfig holds rendered-page cache configuration.
type CacheConfig struct {
	Enabled bool          `envconfig:"SSR_CACHE_ENABLED" default:"false"`
	TTL     time.Duration `envconfig:"SSR_CACHE_TTL" default:"48h"`
	Cleanup time.Duration `envconfig:"SSR_CACHE_CLEANUP" default:"1h"`
}

// ManifestConfig holds manifest page mode configuration.
type ManifestConfig struct {
	Path               string `envconfig:"MANIFEST_PATH" default:"dist/.vite/manifest.json"`
	Entry              string `envconfig:"MANIFEST_ENTRY" default:"src/main.jsx"`
	AssetsDir          string `envconfig:"MANIFEST_ASSETS_DIR" default:"dist/assets"`
	TitlesPath         string `envconfig:"ROUTE_TITLES_PATH" default:"client/src/route_titles.json"`
	DefaultTitle       string `envconfig:"DEFAULT_TITLE" default:"React Manifest"`
	InitialDataMessage string `envconfig:"INITIAL_DATA_MESSAGE" default:"Hello from Go server!"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds allowed origins.
type CORSConfig struct {
	Origins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// CompressionConfig toggles gzip responses.
type CompressionConfig struct {
	Enabled bool `envconfig:"GZIP_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case ModeSSR, ModeManifest:
	default:
		return fmt.Errorf("invalid PAGE_MODE %q (want %s or %s)", c.Server.Mode, ModeSSR, ModeManifest)
	}
	if c.SSR.RenderTimeout < 0 {
		return fmt.Errorf("SSR_RENDER_TIMEOUT must not be negative")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("SSR_CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
			Mode: ModeSSR,
		},
		SSR: SSRConfig{
			BundlePath:        "dist/ssr/server.js",
			AssetsDir:         "dist/client/assets",
			StylesheetPattern: "*.css",
			DefaultStylesheet: "dist/client/assets/index.css",
			ClientScript:      "/assets/client.js",
			PublicDir:         "frontend/public",
			EntryPoint:        "render",
			Origin:            "http://localhost:8080",
			NodeEnv:           "production",
			Title:             "Vite + React + Go (SSR)",
		},
		Cache: CacheConfig{
			TTL:     48 * time.Hour,
			Cleanup: time.Hour,
		},
		Manifest: ManifestConfig{
			Path:               "dist/.vite/manifest.json",
			Entry:              "src/main.jsx",
			AssetsDir:          "dist/assets",
			TitlesPath:         "client/src/route_titles.json",
			DefaultTitle:       "React Manifest",
			InitialDataMessage: "Hello from Go server!",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
		Compression: CompressionConfig{
			Enabled: true,
		},
	}
}
