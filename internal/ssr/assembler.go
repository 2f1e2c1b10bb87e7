// Package ssr turns a render outcome into a complete HTML response.
package ssr

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagehost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pagehost/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/pagehost/internal/shared/id"
	"github.com/GriffinCanCode/pagehost/internal/ssr/engine"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// minimalErrorPage is served if even the error template fails.
const minimalErrorPage = `<!DOCTYPE html>
<html>
<head><title>Error</title></head>
<body><h1>SSR Error</h1><p>Failed to render</p></body>
</html>`

// Renderer executes a bundle and returns its markup.
type Renderer interface {
	Render(ctx context.Context, bundle string) (*engine.Result, error)
}

// Observer receives render outcomes. *monitoring.Metrics implements it.
type Observer interface {
	RecordRender(outcome string, duration time.Duration)
	RecordStylesheet(source string)
}

// Config locates the bundle, stylesheet and client script.
type Config struct {
	BundlePath        string
	AssetsDir         string
	StylesheetPattern string
	DefaultStylesheet string
	ClientScript      string
	Title             string
}

// DefaultConfig returns the paths produced by the front-end build.
func DefaultConfig() Config {
	return Config{
		BundlePath:        "dist/ssr/server.js",
		AssetsDir:         "dist/client/assets",
		StylesheetPattern: "*.css",
		DefaultStylesheet: "dist/client/assets/index.css",
		ClientScript:      "/assets/client.js",
		Title:             "Vite + React + Go (SSR)",
	}
}

// Document is an assembled response.
type Document struct {
	Status     int
	Body       []byte
	Err        error // render failure, nil on success
	Stylesheet Stylesheet
	Duration   time.Duration
}

// Assembler runs the render pipeline for page requests.
type Assembler struct {
	renderer Renderer
	config   Config
	logger   *zap.Logger
	observer Observer
	tracer   *tracing.Tracer
}

// NewAssembler creates an assembler that renders through renderer.
func NewAssembler(renderer Renderer, cfg Config) *Assembler {
	return &Assembler{
		renderer: renderer,
		config:   cfg,
		logger:   zap.NewNop(),
	}
}

// WithLogger sets the logger used for render failures.
func (a *Assembler) WithLogger(logger *zap.Logger) *Assembler {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithObserver sets the metrics sink.
func (a *Assembler) WithObserver(observer Observer) *Assembler {
	a.observer = observer
	return a
}

// WithTracer enables a span per render.
func (a *Assembler) WithTracer(tracer *tracing.Tracer) *Assembler {
	a.tracer = tracer
	return a
}

type documentData struct {
	Title  string
	CSS    template.CSS
	Markup template.HTML
	Script string
}

type errorData struct {
	Summary string
	Detail  string
}

// Assemble loads the bundle, renders it and wraps the markup in the document
// shell. It always returns a well-formed document: 200 on success, 500 with
// an error page on any failure. The failure text is escaped, never altered.
func (a *Assembler) Assemble(ctx context.Context) *Document {
	start := time.Now()
	renderID := id.NewRenderID().String()
	log := logging.ForRender(a.logger, renderID)

	var span *tracing.Span
	if a.tracer != nil {
		span, ctx = a.tracer.StartSpan(ctx, "ssr.render")
		span.SetTag("render_id", renderID)
		defer func() {
			span.Finish()
			a.tracer.Submit(span)
		}()
	}

	doc := a.assemble(ctx, log)
	doc.Duration = time.Since(start)

	outcome := "ok"
	if doc.Err != nil {
		outcome = string(engine.TagOf(doc.Err))
		if outcome == "" {
			outcome = "error"
		}
	}
	if span != nil {
		span.SetTag("ssr.outcome", outcome)
		span.SetStatus(doc.Status)
		if doc.Err != nil {
			span.SetError(doc.Err)
		}
	}
	if a.observer != nil {
		a.observer.RecordRender(outcome, doc.Duration)
	}

	return doc
}

func (a *Assembler) assemble(ctx context.Context, log *zap.Logger) *Document {
	bundle, err := engine.LoadBundle(a.config.BundlePath)
	if err != nil {
		logFailure(ctx, log, err)
		return a.errorDocument("Failed to load SSR bundle. Make sure to run: cd frontend && bun run build", err)
	}

	result, err := a.renderer.Render(ctx, bundle)
	if err != nil {
		logFailure(ctx, log, err)
		return a.errorDocument("Failed to render", err)
	}

	css, err := FindStylesheet(a.config.AssetsDir, a.config.StylesheetPattern, a.config.DefaultStylesheet)
	if err != nil {
		log.Warn("Stylesheet discovery failed", zap.Error(err))
	}
	if a.observer != nil {
		a.observer.RecordStylesheet(css.Source)
	}

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "document.html", documentData{
		Title:  a.config.Title,
		CSS:    template.CSS(css.Text),
		Markup: template.HTML(result.HTML),
		Script: a.config.ClientScript,
	})
	if err != nil {
		log.Error("Document template failed", zap.Error(err))
		return a.errorDocument("Failed to render", err)
	}

	log.Debug("Rendered page",
		zap.Duration("duration", result.Duration),
		zap.Int("bytes", buf.Len()),
		zap.String("stylesheet", css.Source),
		zap.Int("console_entries", len(result.Console)),
	)

	return &Document{
		Status:     http.StatusOK,
		Body:       buf.Bytes(),
		Stylesheet: css,
	}
}

func (a *Assembler) errorDocument(summary string, cause error) *Document {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "error.html", errorData{
		Summary: summary,
		Detail:  cause.Error(),
	})
	if err != nil {
		buf.Reset()
		buf.WriteString(minimalErrorPage)
	}
	return &Document{
		Status: http.StatusInternalServerError,
		Body:   buf.Bytes(),
		Err:    cause,
	}
}

func logFailure(ctx context.Context, log *zap.Logger, err error) {
	fields := []zap.Field{
		zap.String("tag", string(engine.TagOf(err))),
		zap.Error(err),
	}
	var rerr *engine.Error
	if errors.As(err, &rerr) {
		fields = append(fields, zap.String("state", rerr.State.String()))
	}
	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		fields = append(fields, zap.String("trace_id", string(traceID)))
	}
	log.Error("SSR render failed", fields...)
}
