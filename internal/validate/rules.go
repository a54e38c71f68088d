package validate

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildcheck/internal/config"
)

// checkFunc inspects the model and calls emit for every violation.
type checkFunc func(c *checkContext, emit emitFunc)

type emitFunc func(subject, message string, rng hcl.Range)

type rule struct {
	code     string
	severity Severity
	reason   string
	check    checkFunc
}

func errorRule(code string) *rule {
	return &rule{code: code, severity: SeverityError}
}

func warningRule(code string) *rule {
	return &rule{code: code, severity: SeverityWarning}
}

func (r *rule) because(reason string) *rule {
	r.reason = reason
	return r
}

func (r *rule) checkedBy(fn checkFunc) *rule {
	r.check = fn
	return r
}

func (r *rule) String() string {
	return r.code + " because " + r.reason
}

// checkContext is shared by every rule of one run.
type checkContext struct {
	model *config.Model
	opts  Options
	// skipCycles is set by the evaluation-target rule when the ordering
	// graph cannot be built.
	skipCycles bool
}

var rules = []*rule{
	errorRule("SDK001").
		checkedBy(checkSdkLevels).
		because("an APK must declare minSdk <= targetSdk <= compileSdk with every level positive."),
	warningRule("SIGN001").
		checkedBy(checkReleaseSigning).
		because("release artifacts signed with debug credentials cannot be published; a proper release signing configuration is a required follow-up."),
	errorRule("SIGN002").
		checkedBy(checkSigningReferences).
		because("a build type can only be signed by a signing configuration that exists."),
	errorRule("DEP004").
		checkedBy(checkCoordinates).
		because("dependency notations must be group:artifact[:version] coordinates."),
	errorRule("DEP001").
		checkedBy(checkPlatformOrder).
		because("a platform must be declared before the dependencies whose versions it manages."),
	errorRule("DEP002").
		checkedBy(checkVersionless).
		because("a dependency without a version needs a platform in the same configuration to supply one."),
	warningRule("DEP003").
		checkedBy(checkDuplicateDependencies).
		because("declaring a coordinate twice hides which version actually wins."),
	errorRule("EXTRA001").
		checkedBy(checkExtraProperties).
		because("buildscript extra properties must be strings, numbers or bools so every project sees the same value."),
	errorRule("REPO001").
		checkedBy(checkRepositorySources).
		because("a repository source must be a known shorthand or an absolute http, https or file URI."),
	warningRule("REPO002").
		checkedBy(checkDuplicateRepositories).
		because("a repository listed twice is only ever consulted once."),
	errorRule("DIR001").
		checkedBy(checkOutputDirectory).
		because("the redirected output directory must be creatable before subprojects place their outputs under it."),
	errorRule("EVAL001").
		checkedBy(checkEvaluationTargets).
		because("an evaluation dependency can only name a project that is part of the build."),
	errorRule("EVAL002").
		checkedBy(checkEvaluationCycles).
		because("configuration evaluation needs an order in which every project follows the projects it depends on."),
	errorRule("ID001").
		checkedBy(checkIdentifiers).
		because("namespace and application id must be dotted Java package names with at least two segments."),
	errorRule("ID002").
		checkedBy(checkVersioning).
		because("every release needs a positive version code and a non-empty version name."),
	errorRule("LANG001").
		checkedBy(checkLanguageLevels).
		because("language levels must name a Java release the toolchain understands."),
	warningRule("LANG002").
		checkedBy(checkJvmTargetConsistency).
		because("Kotlin and Java classes in one module should target the same JVM bytecode level."),
	errorRule("TASK001").
		checkedBy(checkTasks).
		because("tasks must have a supported type and only the attributes that type accepts, with values of the right type."),
}

// RuleInfo describes one rule.
type RuleInfo struct {
	Code     string   `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
	Because  string   `json:"because" yaml:"because"`
}

// Rules lists every rule in evaluation order.
func Rules() []RuleInfo {
	out := make([]RuleInfo, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleInfo{Code: r.code, Severity: r.severity, Because: r.reason})
	}
	return out
}
