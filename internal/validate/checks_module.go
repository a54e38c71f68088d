package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/coord"
	"github.com/specialistvlad/buildcheck/internal/resolve"
)

func checkSdkLevels(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		subject := resolve.ProjectPath(mod)
		levels := []struct {
			name  string
			value config.IntValue
		}{
			{"min_sdk", mod.MinSdk},
			{"target_sdk", mod.TargetSdk},
			{"compile_sdk", mod.CompileSdk},
		}
		complete := true
		for _, l := range levels {
			if !l.value.Set {
				emit(subject, fmt.Sprintf("%s is not declared", l.name), mod.DeclRange)
				complete = false
			} else if l.value.Value <= 0 {
				emit(subject, fmt.Sprintf("%s must be positive, got %d", l.name, l.value.Value), l.value.Range)
				complete = false
			}
		}
		if !complete {
			continue
		}
		if mod.MinSdk.Value > mod.TargetSdk.Value {
			emit(subject, fmt.Sprintf("min_sdk %d is greater than target_sdk %d", mod.MinSdk.Value, mod.TargetSdk.Value), mod.MinSdk.Range)
		}
		if mod.TargetSdk.Value > mod.CompileSdk.Value {
			emit(subject, fmt.Sprintf("target_sdk %d is greater than compile_sdk %d", mod.TargetSdk.Value, mod.CompileSdk.Value), mod.TargetSdk.Range)
		}
	}
}

func checkReleaseSigning(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		if !resolve.ReusesDebugSigning(mod) {
			continue
		}
		ref := mod.BuildTypes["release"].SigningConfig
		emit(resolve.ProjectPath(mod),
			fmt.Sprintf("release variant is signed with the debug signing configuration (signing_config = %q)", ref.Value),
			ref.Range)
	}
}

func checkSigningReferences(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		for _, name := range sortedKeys(mod.BuildTypes) {
			ref := mod.BuildTypes[name].SigningConfig
			if ref.Value == "" {
				continue
			}
			if _, ok := mod.SigningConfigs[ref.Value]; !ok {
				emit(resolve.ProjectPath(mod),
					fmt.Sprintf("build type %q references undefined signing configuration %q", name, ref.Value),
					ref.Range)
			}
		}
	}
}

func checkCoordinates(c *checkContext, emit emitFunc) {
	if c.model.Buildscript != nil {
		for _, cp := range c.model.Buildscript.Classpath {
			if _, err := coord.Parse(cp.Value); err != nil {
				emit(rootSubject, "buildscript classpath: "+err.Error(), cp.Range)
			}
		}
	}
	for _, key := range sortedKeys(c.model.Boms) {
		bom := c.model.Boms[key]
		for _, member := range sortedKeys(bom.Versions) {
			mc, err := coord.Parse(member)
			if err != nil || mc.HasVersion() {
				emit(rootSubject, fmt.Sprintf("bom %s lists %q, expected group:artifact", key, member), bom.Coordinate.Range)
			}
		}
	}
	for _, mod := range c.model.Modules {
		for _, d := range mod.Dependencies {
			parsed, err := coord.Parse(d.Notation.Value)
			if err != nil {
				emit(resolve.ProjectPath(mod), err.Error(), d.Notation.Range)
				continue
			}
			if d.Platform && !parsed.HasVersion() {
				emit(resolve.ProjectPath(mod), fmt.Sprintf("platform %q must declare a version", d.Notation.Value), d.Notation.Range)
			}
		}
	}
}

// parsedDependency is a dependency declaration whose coordinate parsed.
type parsedDependency struct {
	index int
	decl  *config.Dependency
	coord coord.Coordinate
}

// dependenciesByConfiguration groups parseable declarations by
// configuration, keeping declared order. Malformed ones are left to DEP004.
func dependenciesByConfiguration(mod *config.Module) (map[string][]parsedDependency, []string) {
	groups := make(map[string][]parsedDependency)
	var order []string
	for i, d := range mod.Dependencies {
		c, err := coord.Parse(d.Notation.Value)
		if err != nil {
			continue
		}
		if _, ok := groups[d.Configuration]; !ok {
			order = append(order, d.Configuration)
		}
		groups[d.Configuration] = append(groups[d.Configuration], parsedDependency{index: i, decl: d, coord: c})
	}
	return groups, order
}

func checkPlatformOrder(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		groups, order := dependenciesByConfiguration(mod)
		for _, conf := range order {
			deps := groups[conf]
			for i, d := range deps {
				if !d.decl.Platform {
					continue
				}
				for _, earlier := range deps[:i] {
					if earlier.decl.Platform || earlier.coord.HasVersion() || !managedBy(c.model, d.coord, earlier.coord) {
						continue
					}
					if precededByManagingPlatform(c.model, deps[:i], earlier) {
						continue
					}
					emit(resolve.ProjectPath(mod),
						fmt.Sprintf("platform %s is declared after %s, whose version it manages", d.coord, earlier.coord),
						d.decl.Notation.Range)
				}
			}
		}
	}
}

// precededByManagingPlatform reports whether another platform that manages
// dep was declared before it.
func precededByManagingPlatform(model *config.Model, deps []parsedDependency, dep parsedDependency) bool {
	for _, d := range deps {
		if d.index >= dep.index {
			return false
		}
		if d.decl.Platform && managedBy(model, d.coord, dep.coord) {
			return true
		}
	}
	return false
}

// managedBy reports whether platform supplies the version of member. With a
// matching bom block the answer is exact; without one every versionless
// member of the configuration is assumed to be managed.
func managedBy(model *config.Model, platform, member coord.Coordinate) bool {
	bom, ok := model.Boms[platform.String()]
	if !ok || len(bom.Versions) == 0 {
		return true
	}
	_, ok = bom.Versions[member.Key()]
	return ok
}

func checkVersionless(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		groups, order := dependenciesByConfiguration(mod)
		for _, conf := range order {
			hasPlatform := false
			for _, d := range groups[conf] {
				if d.decl.Platform {
					hasPlatform = true
					break
				}
			}
			if hasPlatform {
				continue
			}
			for _, d := range groups[conf] {
				if !d.coord.HasVersion() {
					emit(resolve.ProjectPath(mod),
						fmt.Sprintf("%s has no version and no platform is declared in %q", d.coord, conf),
						d.decl.Notation.Range)
				}
			}
		}
	}
}

func checkDuplicateDependencies(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		groups, order := dependenciesByConfiguration(mod)
		for _, conf := range order {
			first := make(map[string]parsedDependency)
			for _, d := range groups[conf] {
				key := d.coord.Key()
				if d.decl.Platform {
					key = "platform|" + key
				}
				if prev, dup := first[key]; dup {
					emit(resolve.ProjectPath(mod),
						fmt.Sprintf("%s is declared again in %q (first declared at %s)", d.coord.Key(), conf, prev.decl.Notation.Range),
						d.decl.Notation.Range)
					continue
				}
				first[key] = d
			}
		}
	}
}

var (
	packageSegment = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	javaKeywords   = map[string]bool{
		"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
		"case": true, "catch": true, "char": true, "class": true, "const": true,
		"continue": true, "default": true, "do": true, "double": true, "else": true,
		"enum": true, "extends": true, "final": true, "finally": true, "float": true,
		"for": true, "goto": true, "if": true, "implements": true, "import": true,
		"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
		"new": true, "package": true, "private": true, "protected": true, "public": true,
		"return": true, "short": true, "static": true, "strictfp": true, "super": true,
		"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
		"transient": true, "try": true, "void": true, "volatile": true, "while": true,
		"true": true, "false": true, "null": true,
	}
)

// packageNameError describes why name is not a valid dotted package name.
func packageNameError(name string) string {
	if name == "" {
		return "is empty"
	}
	segments := strings.Split(name, ".")
	if len(segments) < 2 {
		return "must have at least two dot-separated segments"
	}
	for _, s := range segments {
		if !packageSegment.MatchString(s) {
			return fmt.Sprintf("has invalid segment %q", s)
		}
		if javaKeywords[s] {
			return fmt.Sprintf("uses the reserved word %q as a segment", s)
		}
	}
	return ""
}

func checkIdentifiers(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		subject := resolve.ProjectPath(mod)
		if mod.Namespace.Value == "" {
			emit(subject, "namespace is not declared", mod.DeclRange)
		} else if msg := packageNameError(mod.Namespace.Value); msg != "" {
			emit(subject, fmt.Sprintf("namespace %q %s", mod.Namespace.Value, msg), mod.Namespace.Range)
		}
		if mod.ApplicationID.Value != "" {
			if msg := packageNameError(mod.ApplicationID.Value); msg != "" {
				emit(subject, fmt.Sprintf("application_id %q %s", mod.ApplicationID.Value, msg), mod.ApplicationID.Range)
			}
		}
	}
}

func checkVersioning(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		subject := resolve.ProjectPath(mod)
		switch {
		case !mod.VersionCode.Set:
			emit(subject, "version_code is not declared", mod.DeclRange)
		case mod.VersionCode.Value <= 0:
			emit(subject, fmt.Sprintf("version_code must be positive, got %d", mod.VersionCode.Value), mod.VersionCode.Range)
		}
		if strings.TrimSpace(mod.VersionName.Value) == "" {
			rng := mod.VersionName.Range
			if rng.Filename == "" {
				rng = mod.DeclRange
			}
			emit(subject, "version_name is empty", rng)
		}
	}
}

const (
	minJavaLevel   = 6
	maxJavaLevel   = 25
	minKotlinLevel = 8
)

// JavaMajor normalizes a language level such as "1.8", "11" or
// "VERSION_17" to its major release number.
func JavaMajor(level string) (int, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(level), "VERSION_")
	s = strings.ReplaceAll(s, "_", ".")
	if rest, ok := strings.CutPrefix(s, "1."); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > 8 {
			return 0, false
		}
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func checkLanguageLevels(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		subject := resolve.ProjectPath(mod)
		for _, l := range []struct {
			name  string
			value config.StringValue
			min   int
		}{
			{"source_compatibility", mod.SourceCompatibility, minJavaLevel},
			{"target_compatibility", mod.TargetCompatibility, minJavaLevel},
			{"jvm_target", mod.JvmTarget, minKotlinLevel},
		} {
			if l.value.Value == "" {
				continue
			}
			n, ok := JavaMajor(l.value.Value)
			if !ok || n < l.min || n > maxJavaLevel {
				emit(subject, fmt.Sprintf("%s %q is not a supported Java release", l.name, l.value.Value), l.value.Range)
			}
		}
	}
}

func checkJvmTargetConsistency(c *checkContext, emit emitFunc) {
	for _, mod := range c.model.Modules {
		java, ok := JavaMajor(mod.TargetCompatibility.Value)
		if !ok {
			continue
		}
		kotlin, ok := JavaMajor(mod.JvmTarget.Value)
		if !ok || kotlin == java {
			continue
		}
		emit(resolve.ProjectPath(mod),
			fmt.Sprintf("jvm_target %q differs from target_compatibility %q", mod.JvmTarget.Value, mod.TargetCompatibility.Value),
			mod.JvmTarget.Range)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
