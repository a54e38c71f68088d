// Package coord parses and compares artifact coordinates of the form
// `group:artifact[:version[:classifier]][@extension]`.
package coord

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// partRegex matches the group, artifact and classifier parts.
var partRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Coordinate is a parsed artifact coordinate.
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	Extension  string
}

// Parse splits a coordinate string into its parts. The version is optional;
// a versionless coordinate is expected to be managed by a platform.
func Parse(raw string) (Coordinate, error) {
	var c Coordinate
	s := strings.TrimSpace(raw)
	if s == "" {
		return c, fmt.Errorf("coordinate cannot be empty")
	}

	if at := strings.LastIndex(s, "@"); at >= 0 {
		c.Extension = s[at+1:]
		s = s[:at]
		if c.Extension == "" || !partRegex.MatchString(c.Extension) {
			return Coordinate{}, fmt.Errorf("coordinate %q has an invalid extension", raw)
		}
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return Coordinate{}, fmt.Errorf("coordinate %q must have the form group:artifact[:version[:classifier]]", raw)
	}
	for i, p := range parts {
		if p == "" {
			return Coordinate{}, fmt.Errorf("coordinate %q has an empty part at position %d", raw, i+1)
		}
	}
	if !partRegex.MatchString(parts[0]) || !partRegex.MatchString(parts[1]) {
		return Coordinate{}, fmt.Errorf("coordinate %q has invalid characters in group or artifact", raw)
	}

	c.Group, c.Artifact = parts[0], parts[1]
	if len(parts) > 2 {
		c.Version = parts[2]
	}
	if len(parts) > 3 {
		if !partRegex.MatchString(parts[3]) {
			return Coordinate{}, fmt.Errorf("coordinate %q has an invalid classifier", raw)
		}
		c.Classifier = parts[3]
	}
	return c, nil
}

// Key identifies the module independent of version, e.g. `com.google.firebase:firebase-auth`.
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Artifact
}

// HasVersion reports whether the coordinate pins an explicit version.
func (c Coordinate) HasVersion() bool {
	return c.Version != ""
}

// WithVersion returns a copy of c pinned to version.
func (c Coordinate) WithVersion(version string) Coordinate {
	c.Version = version
	return c
}

// String renders the coordinate in its canonical notation.
func (c Coordinate) String() string {
	var sb strings.Builder
	sb.WriteString(c.Key())
	if c.Version != "" || c.Classifier != "" {
		sb.WriteString(":")
		sb.WriteString(c.Version)
	}
	if c.Classifier != "" {
		sb.WriteString(":")
		sb.WriteString(c.Classifier)
	}
	if c.Extension != "" {
		sb.WriteString("@")
		sb.WriteString(c.Extension)
	}
	return sb.String()
}

// CompareVersions orders two version strings. Versions that are valid
// semantic versions (with an implied "v" prefix) are compared with semver;
// anything else falls back to a part-wise numeric comparison, where
// non-numeric parts compare lexically.
func CompareVersions(a, b string) int {
	va, vb := "v"+a, "v"+b
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb)
	}

	pa := strings.FieldsFunc(a, isVersionSeparator)
	pb := strings.FieldsFunc(b, isVersionSeparator)
	for i := 0; i < len(pa) || i < len(pb); i++ {
		if i >= len(pa) {
			return -trailingPart(pb[i])
		}
		if i >= len(pb) {
			return trailingPart(pa[i])
		}
		if c := comparePart(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	return 0
}

func isVersionSeparator(r rune) bool {
	return r == '.' || r == '-' || r == '_' || r == '+'
}

// trailingPart orders a version that has one more part than its peer.
// An extra numeric part makes it newer, an extra qualifier makes it older.
func trailingPart(p string) int {
	if _, err := strconv.Atoi(p); err == nil {
		return 1
	}
	return -1
}

func comparePart(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		// Numeric parts sort after qualifiers such as "alpha".
		return 1
	case errB == nil:
		return -1
	}
	return strings.Compare(a, b)
}
