package projectpath

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single project name, e.g. `app` or `feature-login`.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)

// isValidSegmentName rejects names that would be confused with directories.
func isValidSegmentName(name string) bool {
	return name != "." && name != ".."
}

// Parse creates a Path from its canonical string representation. A leading
// separator is required; `:` alone is the root project.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("project path cannot be empty")
	}
	if !strings.HasPrefix(raw, Separator) {
		return Path{}, fmt.Errorf("project path %q must start with %q", raw, Separator)
	}
	if raw == Separator {
		return Root(), nil
	}

	var p Path
	for _, segment := range strings.Split(raw[1:], Separator) {
		if segment == "" {
			return Path{}, fmt.Errorf("project path %q contains an empty segment", raw)
		}
		if !segmentRegex.MatchString(segment) || !isValidSegmentName(segment) {
			return Path{}, fmt.Errorf("invalid project name %q in path %q", segment, raw)
		}
		p.Segments = append(p.Segments, segment)
	}
	return p, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}
