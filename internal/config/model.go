package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of a whole build: the root build
// coordinator plus every application module discovered next to it.
type Model struct {
	// RootDir is the directory of the root project.
	RootDir string
	// Files lists every configuration file that contributed to the model.
	Files []string

	Buildscript *Buildscript
	Coordinator *Coordinator
	// Modules are sorted by name.
	Modules []*Module
	// Boms maps a platform coordinate (group:artifact:version) to the
	// member versions it pins.
	Boms map[string]*Bom
}

// StringValue is a string together with the range it was declared at.
type StringValue struct {
	Value string
	Range hcl.Range
}

// IntValue is an integer together with the range it was declared at.
// Set is false when the attribute was omitted.
type IntValue struct {
	Value int
	Set   bool
	Range hcl.Range
}

// Buildscript holds the settings that apply to the build logic itself.
type Buildscript struct {
	// Extra is an object of user-defined properties, exposed to expressions as `extra`.
	Extra        cty.Value
	// ExtraRange is the range of the `extra` expression, when declared.
	ExtraRange   hcl.Range
	Repositories []StringValue
	Classpath    []StringValue
	DeclRange    hcl.Range
}

// Coordinator is the root project: shared repository sources, the output
// directory redirection and the evaluation ordering between subprojects.
type Coordinator struct {
	// Repositories are the `allprojects` repository sources, in declared order.
	Repositories []StringValue
	// BuildDir is relative to the root project's default build directory
	// (`<RootDir>/build`). Empty means no redirection.
	BuildDir StringValue
	// EvaluationDependsOn lists project paths that every other subproject
	// is evaluated after.
	EvaluationDependsOn []StringValue
	Tasks               []*Task
	DeclRange           hcl.Range
}

// Task is a root-level task. Attributes stay unevaluated until the output
// directory is known.
type Task struct {
	Name       string
	Type       StringValue
	Attributes map[string]hcl.Expression
	DeclRange  hcl.Range
}

// Module is one application module (a subproject).
type Module struct {
	Name      string
	Dir       string
	File      string
	DeclRange hcl.Range

	Plugins   []StringValue
	ApplyFrom []StringValue

	Namespace  StringValue
	CompileSdk IntValue

	ApplicationID StringValue
	MinSdk        IntValue
	TargetSdk     IntValue
	VersionCode   IntValue
	VersionName   StringValue

	SourceCompatibility StringValue
	TargetCompatibility StringValue
	JvmTarget           StringValue

	// SigningConfigs always contains the implicit "debug" entry.
	SigningConfigs map[string]*SigningConfig
	BuildTypes     map[string]*BuildType
	SourceSets     map[string]*SourceSet
	// Dependencies are kept in declared order.
	Dependencies []*Dependency
}

// DebugSigning is the name of the signing configuration every module has.
const DebugSigning = "debug"

// SigningConfig is a named set of signing credentials. Secrets are only
// referenced by environment variable name.
type SigningConfig struct {
	Name             string
	StoreFile        StringValue
	StorePasswordEnv StringValue
	KeyAlias         StringValue
	Implicit         bool
	DeclRange        hcl.Range
}

// BuildType is a build variant such as "debug" or "release".
type BuildType struct {
	Name          string
	SigningConfig StringValue
	Minify        bool
	DeclRange     hcl.Range
}

// SourceSet holds source directory overrides.
type SourceSet struct {
	Name        string
	JavaSrcDirs []StringValue
	DeclRange   hcl.Range
}

// Dependency is one dependency declaration. Platform declarations pin
// versions for other entries in the same configuration.
type Dependency struct {
	Configuration string
	Notation      StringValue
	Platform      bool
	DeclRange     hcl.Range
}

// Bom lists the member versions a platform pins.
type Bom struct {
	Coordinate StringValue
	Versions   map[string]string
}

// Module returns the module with the given name, or nil.
func (m *Model) Module(name string) *Module {
	for _, mod := range m.Modules {
		if mod.Name == name {
			return mod
		}
	}
	return nil
}
