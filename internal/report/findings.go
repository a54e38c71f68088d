package report

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildcheck/internal/validate"
)

// Options control text rendering.
type Options struct {
	// Files supplies source for snippets; nil disables them.
	Files map[string]*hcl.File
	// Width wraps text output; 0 disables wrapping.
	Width uint
	Color bool
}

// Diagnostics converts findings into HCL diagnostics.
func Diagnostics(r *validate.Report) hcl.Diagnostics {
	diags := make(hcl.Diagnostics, 0, len(r.Findings))
	for _, f := range r.Findings {
		severity := hcl.DiagWarning
		if f.Severity == validate.SeverityError {
			severity = hcl.DiagError
		}
		detail := f.Because
		if f.Subject != "" {
			detail = fmt.Sprintf("Project %s: %s", f.Subject, detail)
		}
		if f.Promoted {
			detail += " (promoted to an error by strict mode)"
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: severity,
			Summary:  fmt.Sprintf("%s: %s", f.Code, f.Message),
			Detail:   detail,
			Subject:  f.Range,
		})
	}
	return diags
}

// WriteReport renders a validation report.
func WriteReport(w io.Writer, r *validate.Report, format Format, opts Options) error {
	switch format {
	case FormatText:
		return writeReportText(w, r, opts)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		return fmt.Errorf("format %q is not supported for validation reports", format)
	}
}

func writeReportText(w io.Writer, r *validate.Report, opts Options) error {
	if len(r.Findings) > 0 {
		dw := hcl.NewDiagnosticTextWriter(w, opts.Files, opts.Width, opts.Color)
		if err := dw.WriteDiagnostics(Diagnostics(r)); err != nil {
			return fmt.Errorf("failed to write diagnostics: %w", err)
		}
	}
	_, err := fmt.Fprintf(w, "%s, %s\n",
		plural(r.Count(validate.SeverityError), "error"),
		plural(r.Count(validate.SeverityWarning), "warning"))
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// WriteRules lists the rule table.
func WriteRules(w io.Writer, rules []validate.RuleInfo, format Format) error {
	switch format {
	case FormatText:
		for _, r := range rules {
			if _, err := fmt.Fprintf(w, "%-8s %-8s %s\n", r.Code, r.Severity, r.Because); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		return writeJSON(w, rules)
	case FormatYAML:
		return writeYAML(w, rules)
	default:
		return fmt.Errorf("format %q is not supported for the rule list", format)
	}
}
