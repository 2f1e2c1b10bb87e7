package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// sandbox is the per-render execution context. It is owned by exactly one
// Render call and never reused.
type sandbox struct {
	vm     *goja.Runtime
	logger *zap.Logger
	state  State

	consoleMu sync.Mutex
	console   []LogEntry
}

func (p *Platform) newSandbox() *sandbox {
	vm := goja.New()
	if p.config.MaxCallStackSize > 0 {
		vm.SetMaxCallStackSize(p.config.MaxCallStackSize)
	}
	return &sandbox{
		vm:     vm,
		logger: p.logger,
		state:  StateContextCreated,
	}
}

// run executes prog, converting panics raised inside the VM into errors.
func (s *sandbox) run(prog *goja.Program) (val goja.Value, err error) {
	defer func() {
		if x := recover(); x != nil {
			val = nil
			err = &panicError{value: x}
		}
	}()
	return s.vm.RunProgram(prog)
}

// errSymbolResult is returned for a Symbol result, which has no implicit
// string conversion.
var errSymbolResult = errors.New("TypeError: Cannot convert a Symbol value to a string")

// text converts v to a string the way an implicit string conversion would in
// script. Symbols are rejected.
func (s *sandbox) text(v goja.Value) (text string, err error) {
	if v == nil {
		return "", nil
	}
	if _, ok := v.(*goja.Symbol); ok {
		return "", errSymbolResult
	}
	defer func() {
		if x := recover(); x != nil {
			err = &panicError{value: x}
		}
	}()
	if ex := s.vm.Try(func() {
		text = v.ToString().String()
	}); ex != nil {
		return "", ex
	}
	return text, nil
}

// watch interrupts the VM when ctx is done or timeout elapses. The returned
// func stops watching.
func (s *sandbox) watch(ctx context.Context, timeout time.Duration) func() {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Done() == nil && timeout <= 0 {
		return func() {}
	}

	var (
		timer   *time.Timer
		expired <-chan time.Time
	)
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		expired = timer.C
	}

	done := make(chan struct{})
	vm := s.vm
	go func() {
		select {
		case <-expired:
			vm.Interrupt("render timeout exceeded")
		case <-ctx.Done():
			vm.Interrupt(ctx.Err().Error())
		case <-done:
		}
	}()

	return func() {
		close(done)
		if timer != nil {
			timer.Stop()
		}
	}
}

// captureConsole replaces the polyfilled console with recorders.
func (s *sandbox) captureConsole() error {
	console := s.vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(level, s.recorder(level)); err != nil {
			return err
		}
	}
	return s.vm.Set("console", console)
}

func (s *sandbox) recorder(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		msg := strings.Join(parts, " ")

		s.consoleMu.Lock()
		s.console = append(s.console, LogEntry{
			Level:   level,
			Message: msg,
			Time:    time.Now(),
		})
		s.consoleMu.Unlock()

		s.logger.Debug("bundle console", zap.String("console_level", level), zap.String("text", msg))
		return goja.Undefined()
	}
}

func (s *sandbox) entries() []LogEntry {
	s.consoleMu.Lock()
	defer s.consoleMu.Unlock()
	return append([]LogEntry{}, s.console...)
}

// close releases the VM. The sandbox must not be used afterwards.
func (s *sandbox) close() {
	s.vm = nil
	s.consoleMu.Lock()
	s.console = nil
	s.consoleMu.Unlock()
}
