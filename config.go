package filesniff

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Number of bytes read from each end of a stream
	WindowSize int `env:"FILESNIFF_WINDOW_SIZE,default:1024"`

	// Validation defaults
	MaxFileSize      int64  `env:"FILESNIFF_MAX_FILE_SIZE,default:10485760"` // 10MB default
	MinFileSize      int64  `env:"FILESNIFF_MIN_FILE_SIZE,default:0"`
	AllowedMimeTypes string `env:"FILESNIFF_ALLOWED_MIME_TYPES"` // comma-separated
	EarlyExit        bool   `env:"FILESNIFF_EARLY_EXIT,default:false"`

	// Directory scanning
	ScanInclude string `env:"FILESNIFF_SCAN_INCLUDE"` // comma-separated globs
	ScanExclude string `env:"FILESNIFF_SCAN_EXCLUDE"` // comma-separated globs
	ScanWorkers int    `env:"FILESNIFF_SCAN_WORKERS,default:4"`

	// Logging
	LogLevel  string `env:"FILESNIFF_LOG_LEVEL,default:info"`  // debug, info, warn, error
	LogFormat string `env:"FILESNIFF_LOG_FORMAT,default:text"` // text, json
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive: %d", c.WindowSize)
	}
	if c.MaxFileSize < 0 || c.MinFileSize < 0 {
		return fmt.Errorf("file size limits must not be negative")
	}
	if c.MaxFileSize > 0 && c.MinFileSize > c.MaxFileSize {
		return fmt.Errorf("min file size %d exceeds max file size %d", c.MinFileSize, c.MaxFileSize)
	}
	if c.ScanWorkers < 0 {
		return fmt.Errorf("scan workers must not be negative: %d", c.ScanWorkers)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.LogFormat)
	}
	return nil
}

// NewLogger builds a logger writing to w according to LogLevel and LogFormat.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SplitList splits a comma-separated setting, trimming whitespace and
// dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
}
