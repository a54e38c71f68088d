package resolve

// Graph is the resolved build graph.
type Graph struct {
	RootDir      string `json:"root_dir" yaml:"root_dir"`
	RootBuildDir string `json:"root_build_dir" yaml:"root_build_dir"`

	// Extra holds the buildscript extra properties rendered as strings.
	Extra map[string]string `json:"extra" yaml:"extra"`

	BuildscriptRepositories []Repository `json:"buildscript_repositories" yaml:"buildscript_repositories"`
	BuildscriptClasspath    []string     `json:"buildscript_classpath" yaml:"buildscript_classpath"`
	Repositories            []Repository `json:"repositories" yaml:"repositories"`

	// EvaluationOrder lists project paths in configuration-evaluation order.
	EvaluationOrder []string   `json:"evaluation_order" yaml:"evaluation_order"`
	Projects        []*Project `json:"projects" yaml:"projects"`
	Tasks           []*Task    `json:"tasks" yaml:"tasks"`
}

// Repository is an artifact source. Name is set for well-known shorthands.
type Repository struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	URL  string `json:"url" yaml:"url"`
}

// Project is one resolved subproject.
type Project struct {
	Path     string `json:"path" yaml:"path"`
	Dir      string `json:"dir" yaml:"dir"`
	BuildDir string `json:"build_dir" yaml:"build_dir"`
	// EvaluatesAfter lists the projects whose configuration must complete first.
	EvaluatesAfter []string `json:"evaluates_after" yaml:"evaluates_after"`

	Plugins   []string `json:"plugins" yaml:"plugins"`
	ApplyFrom []string `json:"apply_from" yaml:"apply_from"`

	Namespace     string `json:"namespace" yaml:"namespace"`
	ApplicationID string `json:"application_id" yaml:"application_id"`
	CompileSdk    int    `json:"compile_sdk" yaml:"compile_sdk"`
	MinSdk        int    `json:"min_sdk" yaml:"min_sdk"`
	TargetSdk     int    `json:"target_sdk" yaml:"target_sdk"`
	VersionCode   int    `json:"version_code" yaml:"version_code"`
	VersionName   string `json:"version_name" yaml:"version_name"`

	SourceCompatibility string `json:"source_compatibility" yaml:"source_compatibility"`
	TargetCompatibility string `json:"target_compatibility" yaml:"target_compatibility"`
	JvmTarget           string `json:"jvm_target" yaml:"jvm_target"`

	// SourceDirs maps a source set to its absolute Java/Kotlin source roots.
	SourceDirs map[string][]string `json:"source_dirs" yaml:"source_dirs"`

	// ReleaseSigning names the signing configuration of the release variant.
	ReleaseSigning string `json:"release_signing" yaml:"release_signing"`
	// ReusesDebugSigning is set when release artifacts would carry debug
	// credentials. It is reported, never corrected.
	ReusesDebugSigning bool `json:"reuses_debug_signing" yaml:"reuses_debug_signing"`

	Dependencies []*Dependency `json:"dependencies" yaml:"dependencies"`
}

// Dependency is one resolved dependency declaration.
type Dependency struct {
	Configuration string `json:"configuration" yaml:"configuration"`
	Coordinate    string `json:"coordinate" yaml:"coordinate"`
	Platform      bool   `json:"platform,omitempty" yaml:"platform,omitempty"`
	// Version is empty when the managing platform does not list the module.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// ManagedBy is the platform coordinate that supplies the version.
	ManagedBy string `json:"managed_by,omitempty" yaml:"managed_by,omitempty"`
}

// Task is a resolved root-level task.
type Task struct {
	Name   string   `json:"name" yaml:"name"`
	Type   string   `json:"type" yaml:"type"`
	Delete []string `json:"delete,omitempty" yaml:"delete,omitempty"`
}

// Options tune resolution.
type Options struct {
	// CheckWritable probes that the root output directory can be created
	// before any subproject output directory is derived from it.
	CheckWritable bool
}
