package validate

import (
	"context"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/ctxlog"
)

// Validate runs every rule against the model. Findings are ordered by
// source position, then by rule order; findings without a position come
// first.
func Validate(ctx context.Context, model *config.Model, opts Options) *Report {
	logger := ctxlog.FromContext(ctx)
	c := &checkContext{model: model, opts: opts}
	report := &Report{Findings: []Finding{}}

	for _, r := range rules {
		before := len(report.Findings)
		r.check(c, func(subject, message string, rng hcl.Range) {
			f := Finding{
				Code:     r.code,
				Severity: r.severity,
				Subject:  subject,
				Message:  message,
				Because:  r.reason,
			}
			if rng.Filename != "" {
				rc := rng
				f.Range = &rc
			}
			if opts.Strict && f.Severity == SeverityWarning {
				f.Severity = SeverityError
				f.Promoted = true
			}
			report.Findings = append(report.Findings, f)
		})
		if n := len(report.Findings) - before; n > 0 {
			logger.Debug("Rule reported findings.", "code", r.code, "count", n)
		}
	}

	ruleOrder := make(map[string]int, len(rules))
	for i, r := range rules {
		ruleOrder[r.code] = i
	}
	sort.SliceStable(report.Findings, func(i, j int) bool {
		a, b := report.Findings[i], report.Findings[j]
		if (a.Range == nil) != (b.Range == nil) {
			return a.Range == nil
		}
		if a.Range != nil {
			if a.Range.Filename != b.Range.Filename {
				return a.Range.Filename < b.Range.Filename
			}
			if a.Range.Start.Byte != b.Range.Start.Byte {
				return a.Range.Start.Byte < b.Range.Start.Byte
			}
		}
		return ruleOrder[a.Code] < ruleOrder[b.Code]
	})

	logger.Debug("Validation finished.",
		"errors", report.Count(SeverityError),
		"warnings", report.Count(SeverityWarning))
	return report
}
