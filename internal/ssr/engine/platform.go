package engine

import (
	"context"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagehost/internal/ssr/polyfill"
)

// Platform is the process-wide engine handle. Its compiled programs are
// immutable and shared by every render; all per-render state lives in a
// sandbox.
type Platform struct {
	config Config
	logger *zap.Logger

	polyfill    *goja.Program
	polyfillErr *Error
	entry       *goja.Program
	entryErr    *Error
}

var (
	initOnce sync.Once
	shared   *Platform
)

// Init returns the process-wide platform, creating it on the first call.
// Later calls return the same handle and ignore cfg.
func Init(cfg Config) *Platform {
	initOnce.Do(func() {
		shared = NewPlatform(cfg)
	})
	return shared
}

// NewPlatform compiles the polyfill and entry programs for cfg. Compile
// failures are kept and reported by Render.
func NewPlatform(cfg Config) *Platform {
	if cfg.EntryPoint == "" {
		cfg.EntryPoint = "render"
	}
	if cfg.Polyfill == "" {
		cfg.Polyfill = polyfill.Source()
	}

	p := &Platform{
		config: cfg,
		logger: zap.NewNop(),
	}

	prog, err := goja.Compile("polyfill.js", cfg.Polyfill, false)
	if err != nil {
		p.polyfillErr = translate(TagPolyfillCompile, StatePlatformReady, err)
	} else {
		p.polyfill = prog
	}

	prog, err = goja.Compile("entry.js", cfg.EntryPoint+"()", false)
	if err != nil {
		p.entryErr = translate(TagEntryPointCompile, StateBundleLoaded, err)
	} else {
		p.entry = prog
	}

	return p
}

// WithLogger returns a handle sharing p's compiled programs whose captured
// console output goes to logger.
func (p *Platform) WithLogger(logger *zap.Logger) *Platform {
	if logger == nil {
		return p
	}
	cp := *p
	cp.logger = logger
	return &cp
}

// Config returns the configuration the platform was built with.
func (p *Platform) Config() Config {
	return p.config
}

// Render runs bundle in a fresh sandbox and returns the entry point's
// result as text. Every failure is returned as *Error.
func (p *Platform) Render(ctx context.Context, bundle string) (*Result, error) {
	start := time.Now()

	if p.polyfillErr != nil {
		return nil, p.polyfillErr
	}

	sb := p.newSandbox()
	defer sb.close()

	stop := sb.watch(ctx, p.config.RenderTimeout)
	defer stop()

	if _, err := sb.run(p.polyfill); err != nil {
		return nil, translate(TagPolyfillRuntime, sb.state, err)
	}
	sb.state = StatePolyfillsLoaded

	if p.config.CaptureConsole {
		if err := sb.captureConsole(); err != nil {
			return nil, translate(TagPolyfillRuntime, sb.state, err)
		}
	}

	prog, err := goja.Compile("bundle.js", bundle, false)
	if err != nil {
		return nil, translate(TagBundleCompile, sb.state, err)
	}
	if _, err := sb.run(prog); err != nil {
		return nil, translate(TagBundleRuntime, sb.state, err)
	}
	sb.state = StateBundleLoaded

	if p.entryErr != nil {
		return nil, p.entryErr
	}
	val, err := sb.run(p.entry)
	if err != nil {
		return nil, translate(TagEntryPointRuntime, sb.state, err)
	}
	sb.state = StateEntryInvoked

	html, err := sb.text(val)
	if err != nil {
		return nil, translate(TagResultConversion, sb.state, err)
	}
	sb.state = StateResultExtracted

	return &Result{
		HTML:     html,
		Console:  sb.entries(),
		Duration: time.Since(start),
	}, nil
}
