// This file translates the root project blocks (buildscript, allprojects,
// project, subprojects, task) into the format-agnostic model.

package hcl_adapter

import (
	"context"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/specialistvlad/buildcheck/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// rootVariables are the `root.*` attributes visible while loading.
func rootVariables(rootDir string) map[string]string {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		abs = rootDir
	}
	return map[string]string{
		"dir":        abs,
		"parent_dir": filepath.Dir(abs),
	}
}

// translateRoot fills model.Buildscript and model.Coordinator and returns the
// evaluation context for the module blocks.
func (l *Loader) translateRoot(ctx context.Context, root *parsedFile, model *config.Model) (*hcl.EvalContext, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	var diags hcl.Diagnostics
	blocks := root.content.Blocks

	vars := rootVariables(model.RootDir)
	evalCtx := hclutil.NewEvalContext(cty.EmptyObjectVal, vars)

	model.Buildscript = &config.Buildscript{Extra: cty.EmptyObjectVal}
	if block, _ := hclutil.FindUniqueBlock(blocks, "buildscript"); block != nil {
		var bs buildscriptBlock
		diags = append(diags, gohcl.DecodeBody(block.Body, nil, &bs)...)
		if diags.HasErrors() {
			return nil, diags
		}

		// `extra` is evaluated on its own so the rest of the file can use it.
		extraEval := newEvaluator(evalCtx)
		extra := extraEval.object(bs.Extra)
		diags = append(diags, extraEval.diags...)
		evalCtx = hclutil.NewEvalContext(extra, vars)

		e := newEvaluator(evalCtx)
		model.Buildscript = &config.Buildscript{
			Extra:        extra,
			ExtraRange:   firstRange(block.DefRange, bs.Extra),
			Repositories: e.strList(bs.Repositories),
			Classpath:    e.strList(bs.Classpath),
			DeclRange:    block.DefRange,
		}
		diags = append(diags, e.diags...)
		logger.Debug("Buildscript translated.", "repositories", len(model.Buildscript.Repositories), "classpath", len(model.Buildscript.Classpath))
	}

	e := newEvaluator(evalCtx)
	coord := &config.Coordinator{}

	project, _ := hclutil.FindUniqueBlock(blocks, "project")
	var pb projectBlock
	diags = append(diags, gohcl.DecodeBody(project.Body, nil, &pb)...)
	coord.BuildDir = e.str(pb.BuildDir)
	coord.DeclRange = project.DefRange

	if block, _ := hclutil.FindUniqueBlock(blocks, "allprojects"); block != nil {
		var ab allprojectsBlock
		diags = append(diags, gohcl.DecodeBody(block.Body, nil, &ab)...)
		coord.Repositories = e.strList(ab.Repositories)
	}

	if block, _ := hclutil.FindUniqueBlock(blocks, "subprojects"); block != nil {
		var sb subprojectsBlock
		diags = append(diags, gohcl.DecodeBody(block.Body, nil, &sb)...)
		coord.EvaluationDependsOn = e.strList(sb.EvaluationDependsOn)
	}

	for _, block := range blocks {
		if block.Type != "task" {
			continue
		}
		task, tdiags := l.translateTask(block, e)
		diags = append(diags, tdiags...)
		if task != nil {
			coord.Tasks = append(coord.Tasks, task)
		}
	}

	diags = append(diags, e.diags...)
	model.Coordinator = coord
	logger.Debug("Root project translated.", "build_dir", coord.BuildDir.Value, "repositories", len(coord.Repositories), "tasks", len(coord.Tasks))
	return evalCtx, diags
}

// translateTask keeps every attribute except `type` unevaluated; they may
// refer to `root.build_dir`, which is only known after resolution.
func (l *Loader) translateTask(block *hcl.Block, e *evaluator) (*config.Task, hcl.Diagnostics) {
	var tb taskBlock
	diags := gohcl.DecodeBody(block.Body, nil, &tb)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, adiags := bodyAttributes(tb.Remain)
	diags = append(diags, adiags...)
	return &config.Task{
		Name:       block.Labels[0],
		Type:       e.str(tb.Type),
		Attributes: attrs,
		DeclRange:  block.DefRange,
	}, diags
}

// translateBom converts a `bom` block; the label is the platform coordinate.
func (l *Loader) translateBom(block *hcl.Block, evalCtx *hcl.EvalContext) (*config.Bom, hcl.Diagnostics) {
	var bb bomBlock
	diags := gohcl.DecodeBody(block.Body, nil, &bb)
	if diags.HasErrors() {
		return nil, diags
	}
	e := newEvaluator(evalCtx)
	bom := &config.Bom{
		Coordinate: config.StringValue{Value: block.Labels[0], Range: block.LabelRanges[0]},
		Versions:   e.strMap(bb.Versions),
	}
	return bom, append(diags, e.diags...)
}
