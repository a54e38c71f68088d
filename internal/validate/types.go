package validate

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one rule violation.
type Finding struct {
	Code     string   `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
	// Subject is the project path the finding is about; ":" for the root.
	Subject string `json:"subject" yaml:"subject"`
	Message string `json:"message" yaml:"message"`
	Because string `json:"because" yaml:"because"`
	// Promoted is set when strict mode raised a warning to an error.
	Promoted bool       `json:"promoted,omitempty" yaml:"promoted,omitempty"`
	Range    *hcl.Range `json:"range,omitempty" yaml:"range,omitempty"`
}

func (f Finding) String() string {
	if f.Range != nil {
		return fmt.Sprintf("%s: %s %s: %s", f.Range, f.Severity, f.Code, f.Message)
	}
	return fmt.Sprintf("%s %s: %s", f.Severity, f.Code, f.Message)
}

// Report is the ordered result of a validation run.
type Report struct {
	Findings []Finding `json:"findings" yaml:"findings"`
}

// HasErrors reports whether any finding has error severity.
func (r *Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Count returns the number of findings with the given severity.
func (r *Report) Count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Codes returns the finding codes in report order.
func (r *Report) Codes() []string {
	codes := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		codes = append(codes, f.Code)
	}
	return codes
}

// Options tune a validation run.
type Options struct {
	// CheckWritable probes that the root output directory can be created.
	CheckWritable bool
	// Strict promotes every warning to an error.
	Strict bool
}
