package filesniff

import (
	"fmt"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Global instance
var (
	defaultDetector *Detector
	defaultOnce     sync.Once
	defaultErr      error
)

// Builder provides a way to create Detector instances with custom env prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global Detector instance using the builder's prefix
func (b *Builder) Init() error {
	cfg, err := b.Config()
	if err != nil {
		return err
	}
	return Init(cfg)
}

// New creates a new Detector instance using the builder's prefix
func (b *Builder) New(opts ...DetectorOption) (*Detector, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Config loads the configuration using the builder's prefix
func (b *Builder) Config() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init initializes the global detector instance
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultDetector, defaultErr = New(cfg)
	})

	return defaultErr
}

// New creates a detector from config. Options are applied after the config
// and take precedence.
func New(cfg *Config, opts ...DetectorOption) (*Detector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("invalid config: nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	all := make([]DetectorOption, 0, len(opts)+1)
	all = append(all, WithWindowSize(cfg.WindowSize))
	all = append(all, opts...)
	return NewDetector(all...), nil
}

// Default returns the global instance, initializing if needed with error handling
func Default() (*Detector, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	return defaultDetector, nil
}

// DefaultDetector returns the global instance, falling back to a detector
// with built-in defaults if the environment config is invalid.
func DefaultDetector() *Detector {
	if d, err := Default(); err == nil && d != nil {
		return d
	}
	return NewDetector()
}

// NewFromEnv creates instance from environment variables (convenience constructor)
func NewFromEnv(opts ...DetectorOption) (*Detector, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultDetector = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}
