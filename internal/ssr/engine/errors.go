package engine

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// Tag identifies the stage and kind of a render failure.
type Tag string

const (
	TagBundleNotFound    Tag = "BundleNotFound"
	TagBundleRead        Tag = "BundleReadError"
	TagPolyfillCompile   Tag = "PolyfillCompileError"
	TagPolyfillRuntime   Tag = "PolyfillRuntimeError"
	TagBundleCompile     Tag = "BundleCompileError"
	TagBundleRuntime     Tag = "BundleRuntimeError"
	TagEntryPointCompile Tag = "EntryPointCompileError"
	TagEntryPointRuntime Tag = "EntryPointRuntimeError"
	TagResultConversion  Tag = "ResultConversionError"
)

type tagInfo struct {
	label    string
	fallback string
}

var tags = map[Tag]tagInfo{
	TagBundleNotFound:    {"Bundle not found", "SSR bundle not found"},
	TagBundleRead:        {"Bundle read error", "Failed to read SSR bundle"},
	TagPolyfillCompile:   {"Polyfill compile error", "Failed to compile polyfills"},
	TagPolyfillRuntime:   {"Polyfill error", "Failed to run polyfills"},
	TagBundleCompile:     {"Compile error", "Failed to compile script"},
	TagBundleRuntime:     {"Runtime error", "Failed to run script"},
	TagEntryPointCompile: {"Render compile error", "Failed to compile render call"},
	TagEntryPointRuntime: {"Render error", "Failed to execute render()"},
	TagResultConversion:  {"Result conversion error", "Failed to convert result to string"},
}

// Label returns the human readable prefix used in error messages.
func (t Tag) Label() string {
	if info, ok := tags[t]; ok {
		return info.label
	}
	return string(t)
}

// Fallback returns the message used when the engine provides no text.
func (t Tag) Fallback() string {
	if info, ok := tags[t]; ok {
		return info.fallback
	}
	return "render failed"
}

// Error is a tagged render failure.
type Error struct {
	Tag     Tag
	Message string
	State   State // last state reached before the failure
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Tag.Label(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TagOf returns the tag of err, or "" if err is not a render failure.
func TagOf(err error) Tag {
	var e *Error
	if errors.As(err, &e) {
		return e.Tag
	}
	return ""
}

// translate converts an engine failure into a tagged *Error.
func translate(tag Tag, state State, err error) *Error {
	msg := messageOf(err)
	if msg == "" {
		msg = tag.Fallback()
	}
	return &Error{Tag: tag, Message: msg, State: state, Err: err}
}

// messageOf extracts the text of the engine exception behind err.
func messageOf(err error) (msg string) {
	if err == nil {
		return ""
	}

	// A thrown value with a throwing toString must not escape as a panic.
	defer func() {
		if recover() != nil {
			msg = ""
		}
	}()

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Sprintf("interrupted: %v", interrupted.Value())
	}

	var ex *goja.Exception
	if errors.As(err, &ex) {
		if v := ex.Value(); v != nil && !goja.IsUndefined(v) {
			return v.String()
		}
		return ""
	}

	return err.Error()
}

// panicError wraps a recovered panic value.
type panicError struct {
	value interface{}
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}
