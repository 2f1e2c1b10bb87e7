package engine

import (
	"time"

	"github.com/GriffinCanCode/pagehost/internal/ssr/polyfill"
)

// Config defines engine configuration
type Config struct {
	EntryPoint       string        // Global function called with no arguments
	Polyfill         string        // Host globals source, polyfill.Source() when empty
	RenderTimeout    time.Duration // Interrupt a render after this long, 0 disables
	MaxCallStackSize int           // goja call stack limit, 0 keeps the engine default
	CaptureConsole   bool          // Record console calls instead of dropping them
}

// DefaultConfig returns the configuration used by the SSR server.
func DefaultConfig() Config {
	return Config{
		EntryPoint: "render",
		Polyfill:   polyfill.Source(),
	}
}

// Result holds a successful render.
type Result struct {
	HTML     string        // Entry point return value as text
	Console  []LogEntry    // Captured console output
	Duration time.Duration // Time spent inside the sandbox
}

// LogEntry represents console output
type LogEntry struct {
	Level   string
	Message string
	Time    time.Time
}

// State is the progress of a single render.
type State int

const (
	StateIdle State = iota
	StatePlatformReady
	StateContextCreated
	StatePolyfillsLoaded
	StateBundleLoaded
	StateEntryInvoked
	StateResultExtracted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlatformReady:
		return "platform_ready"
	case StateContextCreated:
		return "context_created"
	case StatePolyfillsLoaded:
		return "polyfills_loaded"
	case StateBundleLoaded:
		return "bundle_loaded"
	case StateEntryInvoked:
		return "entry_invoked"
	case StateResultExtracted:
		return "result_extracted"
	default:
		return "unknown"
	}
}
