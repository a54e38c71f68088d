package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/report"
	"github.com/specialistvlad/buildcheck/internal/resolve"
	"github.com/specialistvlad/buildcheck/internal/validate"
)

// Command selects what Run produces.
type Command string

const (
	// CommandValidate writes the validation report.
	CommandValidate Command = "validate"
	// CommandResolve writes the resolved build graph.
	CommandResolve Command = "resolve"
	// CommandGraph writes the evaluation ordering, as DOT unless a
	// structured format is configured.
	CommandGraph Command = "graph"
)

// Run executes one load, validate and render cycle. ErrValidationFailed is
// returned when error findings remain; the report has been written by then.
func (a *App) Run(ctx context.Context, cmd Command) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.", "command", cmd)

	model, rep, err := a.Check(ctx)
	if err != nil {
		return err
	}
	format := report.Format(a.config.Format)
	// DOT only renders graphs; reports fall back to text.
	reportFormat := format
	if reportFormat == report.FormatDOT {
		reportFormat = report.FormatText
	}

	switch cmd {
	case CommandValidate:
		if err := report.WriteReport(a.outW, rep, reportFormat, a.reportOptions()); err != nil {
			return err
		}
		if rep.HasErrors() {
			return ErrValidationFailed
		}
		return nil

	case CommandResolve, CommandGraph:
		if rep.HasErrors() {
			if err := report.WriteReport(a.outW, rep, reportFormat, a.reportOptions()); err != nil {
				return err
			}
			return ErrValidationFailed
		}
		a.logWarnings(rep)

		g, err := resolve.Resolve(ctx, model, resolve.Options{CheckWritable: a.config.CheckWritable})
		if err != nil {
			return fmt.Errorf("failed to resolve build graph: %w", err)
		}
		if cmd == CommandGraph && format == report.FormatText {
			format = report.FormatDOT
		}
		if err := report.WriteGraph(a.outW, g, format); err != nil {
			return err
		}
		a.logger.Debug("App.Run method finished.")
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// Check loads the configuration and validates it.
func (a *App) Check(ctx context.Context) (*config.Model, *validate.Report, error) {
	ctx = a.context(ctx)
	model, err := a.loader.Load(ctx, a.config.Paths...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Debug("Configuration loaded and translated into unified model.", "modules", len(model.Modules))

	rep := validate.Validate(ctx, model, validate.Options{
		CheckWritable: a.config.CheckWritable,
		Strict:        a.config.Strict,
	})
	return model, rep, nil
}

func (a *App) reportOptions() report.Options {
	return report.Options{Files: a.files()}
}

// logWarnings surfaces findings that do not stop resolution.
func (a *App) logWarnings(rep *validate.Report) {
	for _, f := range rep.Findings {
		if f.Severity != validate.SeverityWarning {
			continue
		}
		attrs := []any{"code", f.Code, "subject", f.Subject}
		if f.Range != nil {
			attrs = append(attrs, "at", f.Range.String())
		}
		a.logger.Warn(f.Message, attrs...)
	}
}
