// This file translates `module` blocks into the format-agnostic model.

package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/specialistvlad/buildcheck/internal/hclutil"
	"github.com/specialistvlad/buildcheck/internal/projectpath"
)

// translateModule converts one `module` block. The project directory is the
// directory of the declaring file.
func (l *Loader) translateModule(ctx context.Context, file string, block *hcl.Block, evalCtx *hcl.EvalContext) (*config.Module, hcl.Diagnostics) {
	name := block.Labels[0]
	logger := ctxlog.FromContext(ctx).With("module", name)
	logger.Debug("Translating HCL module to internal config model.", "file", file)

	var diags hcl.Diagnostics
	detail := ""
	if strings.Contains(name, projectpath.Separator) {
		detail = fmt.Sprintf("Module name %q must be a single project name without %q; modules are direct subprojects of the root.", name, projectpath.Separator)
	} else if _, err := projectpath.Parse(projectpath.Separator + name); err != nil {
		detail = err.Error()
	}
	if detail != "" {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid module name",
			Detail:   detail,
			Subject:  block.LabelRanges[0].Ptr(),
		})
	}

	var mb moduleBlock
	diags = append(diags, gohcl.DecodeBody(block.Body, nil, &mb)...)
	if diags.HasErrors() {
		return nil, diags
	}

	e := newEvaluator(evalCtx)
	mod := &config.Module{
		Name:           name,
		Dir:            filepath.Dir(file),
		File:           file,
		DeclRange:      block.DefRange,
		Plugins:        e.strList(mb.Plugins),
		ApplyFrom:      e.strList(mb.ApplyFrom),
		Namespace:      e.str(mb.Namespace),
		CompileSdk:     e.int(mb.CompileSdk),
		SigningConfigs: map[string]*config.SigningConfig{},
		BuildTypes:     map[string]*config.BuildType{},
		SourceSets:     map[string]*config.SourceSet{},
	}

	if co := mb.CompileOptions; co != nil {
		mod.SourceCompatibility = e.str(co.SourceCompatibility)
		mod.TargetCompatibility = e.str(co.TargetCompatibility)
	}
	if ko := mb.KotlinOptions; ko != nil {
		mod.JvmTarget = e.str(ko.JvmTarget)
	}
	if dc := mb.DefaultConfig; dc != nil {
		mod.ApplicationID = e.str(dc.ApplicationID)
		mod.MinSdk = e.int(dc.MinSdk)
		mod.TargetSdk = e.int(dc.TargetSdk)
		mod.VersionCode = e.int(dc.VersionCode)
		mod.VersionName = e.str(dc.VersionName)
	}

	// The debug signing configuration always exists, as with the Android
	// Gradle plugin. An explicit block replaces it.
	mod.SigningConfigs[config.DebugSigning] = &config.SigningConfig{
		Name:      config.DebugSigning,
		Implicit:  true,
		DeclRange: block.DefRange,
	}
	explicitSigning := map[string]bool{}
	for _, sc := range mb.SigningConfigs {
		if explicitSigning[sc.Name] {
			diags = append(diags, duplicateNested("signing_config", sc.Name, block))
			continue
		}
		explicitSigning[sc.Name] = true
		cfg := &config.SigningConfig{
			Name:             sc.Name,
			StoreFile:        e.str(sc.StoreFile),
			StorePasswordEnv: e.str(sc.StorePasswordEnv),
			KeyAlias:         e.str(sc.KeyAlias),
			DeclRange:        firstRange(block.DefRange, sc.StoreFile, sc.KeyAlias, sc.StorePasswordEnv),
		}
		mod.SigningConfigs[sc.Name] = cfg
	}

	for _, bt := range mb.BuildTypes {
		if _, dup := mod.BuildTypes[bt.Name]; dup {
			diags = append(diags, duplicateNested("build_type", bt.Name, block))
			continue
		}
		mod.BuildTypes[bt.Name] = &config.BuildType{
			Name:          bt.Name,
			SigningConfig: e.str(bt.SigningConfig),
			Minify:        e.bool(bt.MinifyEnabled),
			DeclRange:     firstRange(block.DefRange, bt.SigningConfig, bt.MinifyEnabled),
		}
	}

	for _, ss := range mb.SourceSets {
		if _, dup := mod.SourceSets[ss.Name]; dup {
			diags = append(diags, duplicateNested("source_set", ss.Name, block))
			continue
		}
		mod.SourceSets[ss.Name] = &config.SourceSet{
			Name:        ss.Name,
			JavaSrcDirs: e.strList(ss.JavaSrcDirs),
			DeclRange:   firstRange(block.DefRange, ss.JavaSrcDirs),
		}
	}

	for _, dep := range mb.Dependencies {
		d, ddiags := translateDependency(dep, block, e)
		diags = append(diags, ddiags...)
		if d != nil {
			mod.Dependencies = append(mod.Dependencies, d)
		}
	}

	diags = append(diags, e.diags...)
	logger.Debug("Module translated.", "dependencies", len(mod.Dependencies), "build_types", len(mod.BuildTypes))
	return mod, diags
}

// translateDependency requires exactly one of `coordinate` or `platform`.
func translateDependency(dep *dependencyBlock, owner *hcl.Block, e *evaluator) (*config.Dependency, hcl.Diagnostics) {
	hasCoord := hclutil.IsExprDefined(dep.Coordinate)
	hasPlatform := hclutil.IsExprDefined(dep.Platform)
	if hasCoord == hasPlatform {
		return nil, hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid dependency declaration",
			Detail:   fmt.Sprintf("A %q dependency must set exactly one of \"coordinate\" or \"platform\".", dep.Configuration),
			Subject:  firstRange(owner.DefRange, dep.Coordinate, dep.Platform).Ptr(),
		}}
	}

	d := &config.Dependency{Configuration: dep.Configuration}
	if hasPlatform {
		d.Notation = e.str(dep.Platform)
		d.Platform = true
	} else {
		d.Notation = e.str(dep.Coordinate)
	}
	d.DeclRange = d.Notation.Range
	return d, nil
}

func duplicateNested(kind, name string, owner *hcl.Block) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Duplicate %q block", kind),
		Detail:   fmt.Sprintf("The %s %q is declared more than once in module %q.", kind, name, owner.Labels[0]),
		Subject:  owner.DefRange.Ptr(),
	}
}

// firstRange returns the range of the first defined expression, or fallback.
func firstRange(fallback hcl.Range, exprs ...hcl.Expression) hcl.Range {
	for _, expr := range exprs {
		if hclutil.IsExprDefined(expr) {
			return expr.Range()
		}
	}
	return fallback
}
