package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagehost/internal/pages"
	"github.com/GriffinCanCode/pagehost/internal/ssr"
	"github.com/GriffinCanCode/pagehost/internal/ssr/cache"
)

const htmlContentType = "text/html; charset=utf-8"

// Cache response headers.
const (
	HeaderCache    = "X-Cache"
	HeaderCacheAge = "X-Cache-Age"
)

// PageAssembler renders a complete SSR document.
type PageAssembler interface {
	Assemble(ctx context.Context) *ssr.Document
}

// CacheObserver records cache lookups. *monitoring.Metrics implements it.
type CacheObserver interface {
	RecordCache(hit bool)
}

// SSRPages serves every unmatched route through the SSR pipeline.
type SSRPages struct {
	assembler PageAssembler
	cache     *cache.Cache
	observer  CacheObserver
	logger    *zap.Logger
	now       func() time.Time
}

// NewSSRPages creates the SSR page handler.
func NewSSRPages(assembler PageAssembler, logger *zap.Logger) *SSRPages {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SSRPages{
		assembler: assembler,
		logger:    logger,
		now:       time.Now,
	}
}

// WithCache enables the rendered-page cache for GET requests.
func (h *SSRPages) WithCache(c *cache.Cache, observer CacheObserver) *SSRPages {
	h.cache = c
	h.observer = observer
	return h
}

// Serve renders the page for the current request.
func (h *SSRPages) Serve(c *gin.Context) {
	cacheable := h.cache != nil && (c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead)
	key := c.Request.URL.Path

	if cacheable {
		if entry, ok := h.cache.Get(key); ok {
			h.recordCache(true)
			age := int(entry.Age(h.now()).Seconds())
			c.Header(HeaderCache, "HIT")
			c.Header(HeaderCacheAge, strconv.Itoa(age))
			c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.cache.TTL().Seconds())))
			c.Data(http.StatusOK, htmlContentType, entry.Body)
			return
		}
		h.recordCache(false)
		c.Header(HeaderCache, "MISS")
	}

	doc := h.assembler.Assemble(c.Request.Context())
	if doc.Err != nil {
		_ = c.Error(doc.Err)
	}
	if cacheable && doc.Status == http.StatusOK {
		h.cache.Set(key, doc.Body)
	}

	c.Data(doc.Status, htmlContentType, doc.Body)
}

func (h *SSRPages) recordCache(hit bool) {
	if h.observer != nil {
		h.observer.RecordCache(hit)
	}
}

// PageRenderer renders a client-side page for a route.
type PageRenderer interface {
	Render(route string) ([]byte, error)
}

// ManifestPages serves every unmatched route from the Vite manifest layout.
type ManifestPages struct {
	renderer PageRenderer
	logger   *zap.Logger
}

// NewManifestPages creates the manifest page handler.
func NewManifestPages(renderer PageRenderer, logger *zap.Logger) *ManifestPages {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManifestPages{renderer: renderer, logger: logger}
}

// Serve renders the layout for the current request path.
func (h *ManifestPages) Serve(c *gin.Context) {
	body, err := h.renderer.Render(c.Request.URL.Path)
	if err != nil {
		_ = c.Error(err)
		h.logger.Error("Page render failed", zap.String("path", c.Request.URL.Path), zap.Error(err))

		var missing *pages.MissingEntryError
		if errors.As(err, &missing) {
			c.String(http.StatusInternalServerError, missing.Error())
			return
		}
		c.String(http.StatusInternalServerError, "Template error: %v", err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, body)
}
