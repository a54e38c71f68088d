package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// rootSchema lists every top-level block a configuration file may contain.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "buildscript"},
		{Type: "allprojects"},
		{Type: "project"},
		{Type: "subprojects"},
		{Type: "task", LabelNames: []string{"name"}},
		{Type: "module", LabelNames: []string{"name"}},
		{Type: "bom", LabelNames: []string{"coordinate"}},
	},
}

// rootOnlyBlocks may only appear once, in the file that declares `project`.
var rootOnlyBlocks = []string{"buildscript", "allprojects", "project", "subprojects"}

// --- Root project blocks ---

type buildscriptBlock struct {
	Extra        hcl.Expression `hcl:"extra,optional"`
	Repositories hcl.Expression `hcl:"repositories,optional"`
	Classpath    hcl.Expression `hcl:"classpath,optional"`
}

type allprojectsBlock struct {
	Repositories hcl.Expression `hcl:"repositories,optional"`
}

type projectBlock struct {
	BuildDir hcl.Expression `hcl:"build_dir,optional"`
}

type subprojectsBlock struct {
	EvaluationDependsOn hcl.Expression `hcl:"evaluation_depends_on,optional"`
}

type taskBlock struct {
	Type   hcl.Expression `hcl:"type"`
	Remain hcl.Body       `hcl:",remain"`
}

type bomBlock struct {
	Versions hcl.Expression `hcl:"versions,optional"`
}

// --- Application module blocks ---

type moduleBlock struct {
	Plugins        hcl.Expression        `hcl:"plugins,optional"`
	ApplyFrom      hcl.Expression        `hcl:"apply_from,optional"`
	Namespace      hcl.Expression        `hcl:"namespace,optional"`
	CompileSdk     hcl.Expression        `hcl:"compile_sdk,optional"`
	CompileOptions *compileOptionsBlock  `hcl:"compile_options,block"`
	KotlinOptions  *kotlinOptionsBlock   `hcl:"kotlin_options,block"`
	DefaultConfig  *defaultConfigBlock   `hcl:"default_config,block"`
	SigningConfigs []*signingConfigBlock `hcl:"signing_config,block"`
	BuildTypes     []*buildTypeBlock     `hcl:"build_type,block"`
	SourceSets     []*sourceSetBlock     `hcl:"source_set,block"`
	Dependencies   []*dependencyBlock    `hcl:"dependency,block"`
}

type compileOptionsBlock struct {
	SourceCompatibility hcl.Expression `hcl:"source_compatibility,optional"`
	TargetCompatibility hcl.Expression `hcl:"target_compatibility,optional"`
}

type kotlinOptionsBlock struct {
	JvmTarget hcl.Expression `hcl:"jvm_target,optional"`
}

type defaultConfigBlock struct {
	ApplicationID hcl.Expression `hcl:"application_id,optional"`
	MinSdk        hcl.Expression `hcl:"min_sdk,optional"`
	TargetSdk     hcl.Expression `hcl:"target_sdk,optional"`
	VersionCode   hcl.Expression `hcl:"version_code,optional"`
	VersionName   hcl.Expression `hcl:"version_name,optional"`
}

type signingConfigBlock struct {
	Name             string         `hcl:"name,label"`
	StoreFile        hcl.Expression `hcl:"store_file,optional"`
	StorePasswordEnv hcl.Expression `hcl:"store_password_env,optional"`
	KeyAlias         hcl.Expression `hcl:"key_alias,optional"`
}

type buildTypeBlock struct {
	Name          string         `hcl:"name,label"`
	SigningConfig hcl.Expression `hcl:"signing_config,optional"`
	MinifyEnabled hcl.Expression `hcl:"minify_enabled,optional"`
}

type sourceSetBlock struct {
	Name        string         `hcl:"name,label"`
	JavaSrcDirs hcl.Expression `hcl:"java_src_dirs,optional"`
}

type dependencyBlock struct {
	Configuration string         `hcl:"configuration,label"`
	Coordinate    hcl.Expression `hcl:"coordinate,optional"`
	Platform      hcl.Expression `hcl:"platform,optional"`
}
