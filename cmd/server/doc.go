// Package main is the entry point for the page server.
//
// The server renders a React application on the server by running its
// server bundle in an embedded JavaScript engine, or, in manifest mode,
// serves a client-rendered layout wired to the Vite build manifest.
//
// Architecture:
//
//	Browser → Go server → script engine (server bundle) → HTML document
//	                    → static assets (dist/client/assets, public dir)
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults matching the front-end build layout
//
// Usage:
//
//	# SSR on the default port
//	./server
//
//	# Manifest mode on another port with debug logs
//	./server -mode manifest -port 3003 -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
