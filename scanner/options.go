package scanner

import (
	"log/slog"
	"runtime"
	"time"
)

// Options holds the scanner settings applied by Option functions
type Options struct {
	include     []string
	exclude     []string
	workers     int
	earlyExit   bool
	fingerprint bool
	debounce    time.Duration
	logger      *slog.Logger
}

// Option configures a Scanner
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		workers:     runtime.GOMAXPROCS(0),
		fingerprint: true,
		debounce:    100 * time.Millisecond,
		logger:      slog.New(slog.DiscardHandler),
	}
}

// WithInclude limits scanning to files matching any of the glob patterns.
// Patterns match either the base name or the slash-separated path relative
// to the root, e.g. "*.pdf" or "invoices/**/*.pdf".
func WithInclude(patterns ...string) Option {
	return func(o *Options) {
		o.include = append(o.include, patterns...)
	}
}

// WithExclude skips files matching any of the glob patterns
func WithExclude(patterns ...string) Option {
	return func(o *Options) {
		o.exclude = append(o.exclude, patterns...)
	}
}

// WithWorkers sets how many files are validated concurrently
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithEarlyExit skips detection for files outside the size limits
func WithEarlyExit(enabled bool) Option {
	return func(o *Options) {
		o.earlyExit = enabled
	}
}

// WithFingerprint enables or disables content fingerprinting
func WithFingerprint(enabled bool) Option {
	return func(o *Options) {
		o.fingerprint = enabled
	}
}

// WithDebounce sets how long Watch waits after the last event for a file
// before validating it
func WithDebounce(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithLogger sets the scanner's logger
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}
