package resolve

import (
	"fmt"

	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/coord"
)

// resolveDependencies resolves a module's declarations in declared order.
// A versionless coordinate takes its version from a platform declared in the
// same configuration; the platform's member versions come from a matching
// `bom` block when one exists. A coordinate declared twice in one
// configuration collapses onto its first position with the highest version.
func resolveDependencies(mod *config.Module, boms map[string]*config.Bom) ([]*Dependency, error) {
	platforms := make(map[string][]coord.Coordinate)
	parsed := make([]coord.Coordinate, len(mod.Dependencies))
	for i, decl := range mod.Dependencies {
		c, err := coord.Parse(decl.Notation.Value)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", mod.Name, err)
		}
		parsed[i] = c
		if decl.Platform {
			platforms[decl.Configuration] = append(platforms[decl.Configuration], c)
		}
	}

	var out []*Dependency
	index := make(map[string]*Dependency)
	for i, decl := range mod.Dependencies {
		c := parsed[i]
		dep := &Dependency{
			Configuration: decl.Configuration,
			Platform:      decl.Platform,
			Version:       c.Version,
		}
		if !c.HasVersion() && !decl.Platform {
			dep.ManagedBy, dep.Version = managedVersion(c, platforms[decl.Configuration], boms)
		}
		if dep.Version != "" {
			dep.Coordinate = c.WithVersion(dep.Version).String()
		} else {
			dep.Coordinate = c.String()
		}

		key := decl.Configuration + "|" + c.Key()
		if prev, dup := index[key]; dup {
			if dep.Version != "" && (prev.Version == "" || coord.CompareVersions(dep.Version, prev.Version) > 0) {
				*prev = *dep
			}
			continue
		}
		index[key] = dep
		out = append(out, dep)
	}
	return out, nil
}

// managedVersion finds the platform that supplies a version for c. When
// several platforms are declared, the first one that lists c wins; if none
// lists it, the first platform is still reported as the manager.
func managedVersion(c coord.Coordinate, platforms []coord.Coordinate, boms map[string]*config.Bom) (managedBy, version string) {
	if len(platforms) == 0 {
		return "", ""
	}
	for _, p := range platforms {
		if bom, ok := boms[p.String()]; ok {
			if v, ok := bom.Versions[c.Key()]; ok && v != "" {
				return p.String(), v
			}
		}
	}
	return platforms[0].String(), ""
}
