// Package polyfill builds the synthetic host globals that are installed in a
// script context before the application bundle runs.
//
// Bundles built for the browser or Node expect a handful of globals to
// exist: window/global/self aliases, console, process, timers, a message
// channel, text encoding and a location object. None of them are backed by a
// real event loop. Every "deferred" callback runs immediately, in call order,
// so setTimeout(fn) behaves like fn(). TextEncoder and TextDecoder work on
// one byte per UTF-16 code unit and are not Unicode-correct.
package polyfill

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// Default values used by Source.
const (
	DefaultOrigin  = "http://localhost:8080"
	DefaultNodeEnv = "production"
	DefaultVersion = "v18.0.0"
)

// Options controls the values baked into the generated source.
type Options struct {
	Origin  string // origin reported by location, e.g. http://localhost:8080
	NodeEnv string // process.env.NODE_ENV
	Version string // process.version
}

// DefaultOptions returns the options used by Source.
func DefaultOptions() Options {
	return Options{
		Origin:  DefaultOrigin,
		NodeEnv: DefaultNodeEnv,
		Version: DefaultVersion,
	}
}

// Location mirrors the fields of window.location.
type Location struct {
	Href     string `json:"href"`
	Origin   string `json:"origin"`
	Protocol string `json:"protocol"`
	Host     string `json:"host"`
	Hostname string `json:"hostname"`
	Port     string `json:"port"`
	Pathname string `json:"pathname"`
	Search   string `json:"search"`
	Hash     string `json:"hash"`
}

// ParseLocation derives a location object for the root path of origin.
func ParseLocation(origin string) (Location, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return Location{}, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Location{}, fmt.Errorf("invalid origin %q: scheme and host required", origin)
	}

	base := u.Scheme + "://" + u.Host
	return Location{
		Href:     base + "/",
		Origin:   base,
		Protocol: u.Scheme + ":",
		Host:     u.Host,
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Pathname: "/",
	}, nil
}

// Build renders the polyfill source for opts. Empty fields fall back to the
// defaults.
func Build(opts Options) (string, error) {
	if opts.Origin == "" {
		opts.Origin = DefaultOrigin
	}
	if opts.NodeEnv == "" {
		opts.NodeEnv = DefaultNodeEnv
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}

	loc, err := ParseLocation(opts.Origin)
	if err != nil {
		return "", err
	}

	locJSON, err := sonic.MarshalString(loc)
	if err != nil {
		return "", fmt.Errorf("encode location: %w", err)
	}
	envJSON, err := sonic.MarshalString(opts.NodeEnv)
	if err != nil {
		return "", fmt.Errorf("encode node env: %w", err)
	}
	versionJSON, err := sonic.MarshalString(opts.Version)
	if err != nil {
		return "", fmt.Errorf("encode version: %w", err)
	}

	r := strings.NewReplacer(
		"__NODE_ENV__", envJSON,
		"__VERSION__", versionJSON,
		"__LOCATION__", locJSON,
	)
	return r.Replace(template), nil
}

var (
	defaultOnce   sync.Once
	defaultSource string
)

// Source returns the polyfill text built from DefaultOptions. The text is
// computed once and shared by every caller.
func Source() string {
	defaultOnce.Do(func() {
		src, err := Build(DefaultOptions())
		if err != nil {
			// DefaultOrigin is a constant; this only fires if it is edited badly.
			panic(err)
		}
		defaultSource = src
	})
	return defaultSource
}

const template = `
var globalThis = this;
var global = this;
var self = this;
var window = this;

var console = {
    log: function() {},
    warn: function() {},
    error: function() {},
    info: function() {},
    debug: function() {}
};

var process = {
    env: { NODE_ENV: __NODE_ENV__ },
    version: __VERSION__,
    nextTick: function(fn) {
        var args = Array.prototype.slice.call(arguments, 1);
        fn.apply(null, args);
    }
};

var setTimeout = function(fn, ms) { fn(); return 0; };
var clearTimeout = function(id) {};
var setInterval = function(fn, ms) { return 0; };
var clearInterval = function(id) {};
var setImmediate = function(fn) { fn(); return 0; };
var clearImmediate = function(id) {};
var queueMicrotask = function(fn) { fn(); };

var MessageChannel = function() {
    var channel = this;
    this.port1 = {
        onmessage: null,
        postMessage: function(msg) {
            if (channel.port2.onmessage) {
                channel.port2.onmessage({ data: msg });
            }
        }
    };
    this.port2 = {
        onmessage: null,
        postMessage: function(msg) {
            if (channel.port1.onmessage) {
                channel.port1.onmessage({ data: msg });
            }
        }
    };
};

var TextEncoder = function() {};
TextEncoder.prototype.encode = function(str) {
    var arr = [];
    for (var i = 0; i < str.length; i++) {
        arr.push(str.charCodeAt(i));
    }
    return new Uint8Array(arr);
};

var TextDecoder = function() {};
TextDecoder.prototype.decode = function(arr) {
    if (!arr) {
        return '';
    }
    return String.fromCharCode.apply(null, arr);
};

if (typeof URL === 'undefined') {
    var URL = function(url, base) {
        this.href = url;
        this.pathname = url;
        this.origin = '';
    };
}

var location = __LOCATION__;
`
