package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/buildcheck/internal/watch"
)

// Watch runs cmd once and again after every batch of configuration changes,
// until ctx is cancelled. Failures of individual runs are logged, not returned.
func (a *App) Watch(ctx context.Context, cmd Command) error {
	ctx = a.context(ctx)
	w, err := watch.New(a.config.WatchDelay, watch.HCLFilter)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range a.config.Paths {
		if err := w.AddRecursive(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	a.runOnce(ctx, cmd)
	a.logger.Info("👀 Watching for configuration changes.", "paths", a.config.Paths)
	return w.Run(ctx, func(ctx context.Context, paths []string) {
		a.logger.Info("🔁 Configuration changed, re-running.", "files", paths)
		a.runOnce(ctx, cmd)
	})
}

func (a *App) runOnce(ctx context.Context, cmd Command) {
	err := a.Run(ctx, cmd)
	switch {
	case err == nil:
		a.logger.Info("🏁 Run finished.", "command", cmd)
	case errors.Is(err, ErrValidationFailed):
		a.logger.Warn("Run finished with validation errors.", "command", cmd)
	default:
		a.logger.Error("Run failed.", "command", cmd, "error", err)
	}
}
