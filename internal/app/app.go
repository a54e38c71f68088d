package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/ctxlog"
)

// ErrValidationFailed is returned when the configuration has error findings.
var ErrValidationFailed = errors.New("validation failed")

// sourceFiles is implemented by loaders that can supply parsed sources for
// diagnostic snippets.
type sourceFiles interface {
	Files() map[string]*hcl.File
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
	}
}

// Config returns the application's configuration.
func (a *App) Config() *Config {
	return a.config
}

// context installs the application logger.
func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// files returns the parsed sources of the last load, if the loader keeps them.
func (a *App) files() map[string]*hcl.File {
	if sf, ok := a.loader.(sourceFiles); ok {
		return sf.Files()
	}
	return nil
}
