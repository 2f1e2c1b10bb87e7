package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	handlers "github.com/GriffinCanCode/pagehost/internal/api/http"
	"github.com/GriffinCanCode/pagehost/internal/api/middleware"
	"github.com/GriffinCanCode/pagehost/internal/infrastructure/config"
	"github.com/GriffinCanCode/pagehost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pagehost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pagehost/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/pagehost/internal/pages"
	"github.com/GriffinCanCode/pagehost/internal/ssr"
	"github.com/GriffinCanCode/pagehost/internal/ssr/cache"
	"github.com/GriffinCanCode/pagehost/internal/ssr/engine"
	"github.com/GriffinCanCode/pagehost/internal/ssr/polyfill"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
	cache   *cache.Cache
}

// NewServer creates a server with a logger built from cfg
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return New(cfg, logger)
}

// New creates a server instance
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing page server",
		zap.String("addr", cfg.Addr()),
		zap.String("mode", cfg.Server.Mode),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("pagehost", logger.Logger)

	if !cfg.Logging.Development && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORS.Origins...)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	if cfg.Compression.Enabled {
		router.Use(middleware.Gzip(middleware.DefaultGzipLevel))
	}

	router.GET("/health", handlers.NewHealth(cfg.Server.Mode, metrics).Serve)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.GET("/hello", handlers.Hello)
	api.PUT("/hello", handlers.Hello)
	api.GET("/hello/:name", handlers.HelloName)

	public, err := handlers.LoadPublicAssets(cfg.SSR.PublicDir)
	if err != nil {
		tracer.Close()
		return nil, err
	}
	logger.Info("Indexed public assets", zap.String("dir", cfg.SSR.PublicDir), zap.Int("files", public.Len()))

	s := &Server{
		router:  router,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  tracer,
	}

	var page gin.HandlerFunc
	switch cfg.Server.Mode {
	case config.ModeManifest:
		page, err = s.manifestPages()
	default:
		page, err = s.ssrPages()
	}
	if err != nil {
		s.release()
		return nil, err
	}
	router.NoRoute(public.Serve, page)

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

func (s *Server) ssrPages() (gin.HandlerFunc, error) {
	cfg := s.config.SSR

	source, err := polyfill.Build(polyfill.Options{Origin: cfg.Origin, NodeEnv: cfg.NodeEnv})
	if err != nil {
		return nil, fmt.Errorf("failed to build polyfills: %w", err)
	}

	platform := engine.Init(engine.Config{
		EntryPoint:       cfg.EntryPoint,
		Polyfill:         source,
		RenderTimeout:    cfg.RenderTimeout,
		MaxCallStackSize: cfg.MaxCallStackSize,
		CaptureConsole:   cfg.CaptureConsole,
	}).WithLogger(s.logger.Logger)

	assembler := ssr.NewAssembler(platform, ssr.Config{
		BundlePath:        cfg.BundlePath,
		AssetsDir:         cfg.AssetsDir,
		StylesheetPattern: cfg.StylesheetPattern,
		DefaultStylesheet: cfg.DefaultStylesheet,
		ClientScript:      cfg.ClientScript,
		Title:             cfg.Title,
	}).
		WithLogger(s.logger.Logger).
		WithObserver(s.metrics).
		WithTracer(s.tracer)

	s.router.Static("/assets", cfg.AssetsDir)

	handler := handlers.NewSSRPages(assembler, s.logger.Logger)
	if s.config.Cache.Enabled {
		s.cache = cache.New(cache.Config{
			TTL:     s.config.Cache.TTL,
			Cleanup: s.config.Cache.Cleanup,
		}, s.logger.Logger)
		handler.WithCache(s.cache, s.metrics)
		s.logger.Info("Page cache enabled", zap.Duration("ttl", s.cache.TTL()))
	}

	s.logger.Info("SSR pipeline ready",
		zap.String("bundle", cfg.BundlePath),
		zap.String("assets", cfg.AssetsDir),
		zap.String("entry_point", platform.Config().EntryPoint),
	)
	return handler.Serve, nil
}

func (s *Server) manifestPages() (gin.HandlerFunc, error) {
	cfg := s.config.Manifest

	renderer, err := pages.New(pages.Config{
		ManifestPath:       cfg.Path,
		Entry:              cfg.Entry,
		TitlesPath:         cfg.TitlesPath,
		DefaultTitle:       cfg.DefaultTitle,
		InitialDataMessage: cfg.InitialDataMessage,
	})
	if err != nil {
		return nil, err
	}

	s.router.Static("/assets", cfg.AssetsDir)

	s.logger.Info("Manifest pages ready",
		zap.String("manifest", cfg.Path),
		zap.String("entry", cfg.Entry),
	)
	return handlers.NewManifestPages(renderer, s.logger.Logger).Serve, nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
	s.release()

	_ = s.logger.Sync()
	return err
}

func (s *Server) release() {
	if s.cache != nil {
		s.cache.Close()
	}
	s.tracer.Close()
}
