/*
Package tracing provides lightweight request tracing for the page server.

# Overview

Every HTTP request gets a span. Renders started from that request open a
child span named "ssr.render", so a slow or failing page can be followed
from the access log down to the render stage that broke.

# Features

- Trace context propagation via HTTP headers
- Span creation with parent-child relationships
- ULID trace and span identifiers
- Gin middleware for automatic instrumentation
- Buffered, asynchronous span logging through zap

# Usage

	tracer := tracing.New("pagehost", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
	span.SetTag("key", "value")

# Trace Format

- X-Trace-ID: identifier for the whole request flow
- X-Span-ID: identifier for the current operation
- X-Request-ID: mirrors the request span ID

Spans are buffered (1000) and dropped rather than blocking when the buffer
is full.
*/
package tracing
