package tracing

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/pagehost/internal/shared/id"
)

// Header names used for trace propagation.
const (
	HeaderTraceID   = "X-Trace-ID"
	HeaderSpanID    = "X-Span-ID"
	HeaderRequestID = "X-Request-ID"
)

// HTTPMiddleware starts a span per request, continuing an incoming trace when
// the caller sent well-formed identifiers, and echoes the identifiers in
// response headers. Malformed incoming values are ignored.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if traceID := c.GetHeader(HeaderTraceID); id.HasPrefix(traceID, id.TracePrefix) {
			ctx = context.WithValue(ctx, traceIDKey, TraceID(traceID))
		}
		if parentID := c.GetHeader(HeaderSpanID); id.HasPrefix(parentID, id.SpanPrefix) {
			ctx = context.WithValue(ctx, spanIDKey, SpanID(parentID))
		}
		requestID := c.GetHeader(HeaderRequestID)
		if !id.HasPrefix(requestID, id.RequestPrefix) {
			requestID = id.NewRequestID().String()
		}

		name := c.FullPath()
		if name == "" {
			name = "page"
		}
		span, ctx := tracer.StartSpan(ctx, name)
		span.SetTag("http.method", c.Request.Method)
		span.SetTag("http.path", c.Request.URL.Path)
		span.SetTag("request_id", requestID)

		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderTraceID, string(span.TraceID))
		c.Header(HeaderSpanID, string(span.SpanID))
		c.Header(HeaderRequestID, requestID)

		c.Next()

		span.SetStatus(c.Writer.Status())
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}

		span.Finish()
		tracer.Submit(span)
	}
}
