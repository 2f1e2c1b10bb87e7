/*
Package monitoring provides Prometheus metrics for the page server.

# Overview

Metrics live in a private registry owned by each Metrics value, so tests
and multiple servers in one process never collide on registration.

# Features

- HTTP request metrics (count, latency, response size)
- Render outcomes by failure tag and render latency
- Page cache hits and misses
- Stylesheet discovery source (scan, fallback, none)
- Uptime plus Go runtime and process collectors

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// *Metrics satisfies ssr.Observer
	assembler.WithObserver(metrics)
*/
package monitoring
