package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/buildcheck/internal/report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // hcl files or directories

	LogFormat string
	LogLevel  string

	Format        string
	Strict        bool
	CheckWritable bool

	// WatchDelay is the debounce period of watch mode.
	WatchDelay time.Duration
}

// NewConfig validates cfg and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}
	for _, p := range cfg.Paths {
		if strings.TrimSpace(p) == "" {
			return nil, errors.New("configuration paths cannot be empty")
		}
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	cfg.Format = string(format)

	if cfg.WatchDelay < 0 {
		return nil, fmt.Errorf("invalid watch delay %s: must not be negative", cfg.WatchDelay)
	}
	return &cfg, nil
}
