package resolve

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/specialistvlad/buildcheck/internal/fsutil"
	"github.com/specialistvlad/buildcheck/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// Resolve computes the build graph of a model. The root output directory is
// resolved, and probed when requested, before any subproject output
// directory is derived from it.
func Resolve(ctx context.Context, model *config.Model, opts Options) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving build graph.", "modules", len(model.Modules))

	g := &Graph{
		RootDir:      absDir(model.RootDir),
		RootBuildDir: RootBuildDir(model),
	}
	if opts.CheckWritable {
		if err := fsutil.ProbeWritable(g.RootBuildDir); err != nil {
			return nil, fmt.Errorf("output directory %s: %w", g.RootBuildDir, err)
		}
		logger.Debug("Output directory is writable.", "dir", g.RootBuildDir)
	}

	var err error
	extra := ExtraValue(model)
	if g.Extra, err = hclutil.StringMap(extra); err != nil {
		return nil, fmt.Errorf("buildscript extra: %w", err)
	}
	if model.Buildscript != nil {
		if g.BuildscriptRepositories, err = ExpandRepositories(model.Buildscript.Repositories); err != nil {
			return nil, fmt.Errorf("buildscript repositories: %w", err)
		}
		g.BuildscriptClasspath = make([]string, 0, len(model.Buildscript.Classpath))
		for _, cp := range model.Buildscript.Classpath {
			g.BuildscriptClasspath = append(g.BuildscriptClasspath, cp.Value)
		}
	}
	if model.Coordinator != nil {
		if g.Repositories, err = ExpandRepositories(model.Coordinator.Repositories); err != nil {
			return nil, fmt.Errorf("project repositories: %w", err)
		}
	}

	evalGraph, err := EvaluationGraph(model)
	if err != nil {
		return nil, err
	}
	if g.EvaluationOrder, err = evalGraph.TopologicalOrder(); err != nil {
		return nil, fmt.Errorf("evaluation ordering: %w", err)
	}
	for _, mod := range model.Modules {
		p, err := resolveProject(mod, g.RootBuildDir, model.Boms)
		if err != nil {
			return nil, err
		}
		if p.EvaluatesAfter, err = evalGraph.Dependencies(p.Path); err != nil {
			return nil, err
		}
		g.Projects = append(g.Projects, p)
	}

	if model.Coordinator != nil {
		evalCtx := hclutil.NewEvalContext(extra, map[string]string{
			"dir":        g.RootDir,
			"parent_dir": filepath.Dir(g.RootDir),
			"build_dir":  g.RootBuildDir,
		})
		if g.Tasks, err = resolveTasks(model.Coordinator.Tasks, extra, evalCtx); err != nil {
			return nil, err
		}
	}

	logger.Debug("Build graph resolved.", "projects", len(g.Projects), "evaluation_order", g.EvaluationOrder)
	return g, nil
}

// ExtraValue returns the buildscript extra object, or an empty object when
// none is declared.
func ExtraValue(model *config.Model) cty.Value {
	if model.Buildscript == nil || model.Buildscript.Extra == cty.NilVal || model.Buildscript.Extra.IsNull() {
		return cty.EmptyObjectVal
	}
	return model.Buildscript.Extra
}

// resolveProject resolves one module. rootBuildDir must already be final.
func resolveProject(mod *config.Module, rootBuildDir string, boms map[string]*config.Bom) (*Project, error) {
	dir := absDir(mod.Dir)
	p := &Project{
		Path:                ProjectPath(mod),
		Dir:                 dir,
		BuildDir:            SubprojectBuildDir(rootBuildDir, mod.Name),
		Plugins:             stringValues(mod.Plugins),
		ApplyFrom:           stringValues(mod.ApplyFrom),
		Namespace:           mod.Namespace.Value,
		ApplicationID:       mod.ApplicationID.Value,
		CompileSdk:          mod.CompileSdk.Value,
		MinSdk:              mod.MinSdk.Value,
		TargetSdk:           mod.TargetSdk.Value,
		VersionCode:         mod.VersionCode.Value,
		VersionName:         mod.VersionName.Value,
		SourceCompatibility: mod.SourceCompatibility.Value,
		TargetCompatibility: mod.TargetCompatibility.Value,
		JvmTarget:           mod.JvmTarget.Value,
		SourceDirs:          map[string][]string{},
	}
	if p.ApplicationID == "" {
		p.ApplicationID = p.Namespace
	}

	for name, ss := range mod.SourceSets {
		dirs := make([]string, 0, len(ss.JavaSrcDirs))
		for _, d := range ss.JavaSrcDirs {
			if filepath.IsAbs(d.Value) {
				dirs = append(dirs, filepath.Clean(d.Value))
			} else {
				dirs = append(dirs, filepath.Join(dir, d.Value))
			}
		}
		sort.Strings(dirs)
		p.SourceDirs[name] = dirs
	}

	if release, ok := mod.BuildTypes["release"]; ok && release.SigningConfig.Value != "" {
		p.ReleaseSigning = release.SigningConfig.Value
		p.ReusesDebugSigning = ReusesDebugSigning(mod)
	}

	deps, err := resolveDependencies(mod, boms)
	if err != nil {
		return nil, err
	}
	p.Dependencies = deps
	return p, nil
}

// ReusesDebugSigning reports whether the release variant is signed with the
// same material as debug builds: either by naming the debug configuration
// directly or by naming one that points at the same keystore and alias.
func ReusesDebugSigning(mod *config.Module) bool {
	release, ok := mod.BuildTypes["release"]
	if !ok || release.SigningConfig.Value == "" {
		return false
	}
	name := release.SigningConfig.Value
	if name == config.DebugSigning {
		return true
	}
	rel, ok := mod.SigningConfigs[name]
	debug := mod.SigningConfigs[config.DebugSigning]
	if !ok || debug == nil || debug.Implicit {
		return false
	}
	return rel.StoreFile.Value != "" &&
		rel.StoreFile.Value == debug.StoreFile.Value &&
		rel.KeyAlias.Value == debug.KeyAlias.Value
}

func stringValues(in []config.StringValue) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, v.Value)
	}
	return out
}
