/*
Package engine executes a compiled application bundle inside the goja
JavaScript engine and returns the markup produced by its entry point.

# Overview

A render runs inside a sandbox that exists only for that render:

 1. Platform: process-wide handle created once (Init). It holds the compiled
    polyfill program and the compiled entry invocation, both immutable and
    shared by every render.
 2. Sandbox: a fresh goja.Runtime with its own global object graph. It is
    created at the start of Render and dropped on every exit path, so no
    global written by one render is visible to the next.
 3. Translator: every failure is returned as *Error carrying a Tag and the
    engine's own exception text when there is one.

# Render stages

	polyfills  compile (at Init)  -> PolyfillCompileError
	           run                -> PolyfillRuntimeError
	bundle     compile            -> BundleCompileError
	           run                -> BundleRuntimeError
	entry      compile (at Init)  -> EntryPointCompileError
	           run                -> EntryPointRuntimeError
	result     to string          -> ResultConversionError

Compile errors found at Init are not fatal. They are reported by each Render
in stage order, so a bad entry point name still surfaces after the bundle has
been checked.

# Usage

	platform := engine.Init(engine.DefaultConfig())

	bundle, err := engine.LoadBundle("dist/ssr/server.js")
	if err != nil {
		return err
	}
	result, err := platform.Render(ctx, bundle)
	if err != nil {
		log.Error("render failed", zap.String("tag", string(engine.TagOf(err))))
	}

# Limitations

There is no event loop. Timers installed by the polyfills call back
immediately. A render only stops early when RenderTimeout is set or ctx is
cancelled; otherwise a bundle that never returns holds its goroutine.
*/
package engine
