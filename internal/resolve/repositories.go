package resolve

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/specialistvlad/buildcheck/internal/config"
)

// wellKnownRepositories maps repository shorthands to their URLs.
var wellKnownRepositories = map[string]string{
	"google":             "https://dl.google.com/dl/android/maven2/",
	"mavenCentral":       "https://repo.maven.apache.org/maven2/",
	"gradlePluginPortal": "https://plugins.gradle.org/m2/",
}

// ExpandRepository turns a shorthand or URI into a Repository. Only absolute
// http, https and file URIs are accepted.
func ExpandRepository(raw string) (Repository, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Repository{}, fmt.Errorf("repository source cannot be empty")
	}
	if u, ok := wellKnownRepositories[s]; ok {
		return Repository{Name: s, URL: u}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Repository{}, fmt.Errorf("repository source %q is not a valid URI: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return Repository{}, fmt.Errorf("repository source %q has no host", raw)
		}
	case "file":
		if u.Path == "" {
			return Repository{}, fmt.Errorf("repository source %q has no path", raw)
		}
	case "":
		return Repository{}, fmt.Errorf("repository source %q is neither a known shorthand nor an absolute URI", raw)
	default:
		return Repository{}, fmt.Errorf("repository source %q uses unsupported scheme %q", raw, u.Scheme)
	}
	return Repository{URL: u.String()}, nil
}

// ExpandRepositories expands every source in declared order. A source that
// resolves to an already-listed URL is dropped; the first occurrence wins.
func ExpandRepositories(sources []config.StringValue) ([]Repository, error) {
	repos := make([]Repository, 0, len(sources))
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		repo, err := ExpandRepository(src.Value)
		if err != nil {
			return nil, err
		}
		if seen[repo.URL] {
			continue
		}
		seen[repo.URL] = true
		repos = append(repos, repo)
	}
	return repos, nil
}
