// Package config provides 12-factor configuration for the page server.
//
// Configuration is loaded from environment variables with defaults that
// match the front-end build layout. CLI flags in cmd/server override the
// values that matter most during development.
//
// Configuration Sections:
//   - Server: listen address and page mode (ssr or manifest)
//   - SSR: bundle, assets and script engine settings
//   - Cache: optional rendered-page cache
//   - Manifest: Vite manifest mode paths and defaults
//   - Logging, RateLimit, CORS, Compression
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s\n", cfg.Addr())
package config
