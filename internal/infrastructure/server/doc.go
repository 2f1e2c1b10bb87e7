// Package server wires the page server together.
//
// Server Lifecycle:
//  1. Load configuration from environment and flags
//  2. Initialize logger, metrics and tracer
//  3. Install middleware (recovery, tracing, metrics, CORS, rate limit, gzip)
//  4. Register the API, health and metrics routes
//  5. Build the page pipeline for the configured mode and mount it, behind
//     the public asset index, as the router fallback
//  6. Serve until Close shuts the listener down
//
// In ssr mode every unmatched route renders the server bundle through the
// process-wide script engine. In manifest mode unmatched routes get a
// client-rendered layout whose assets come from the Vite manifest.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer srv.Close()
//	if err := srv.Run(); err != nil {
//		log.Fatal(err)
//	}
package server
