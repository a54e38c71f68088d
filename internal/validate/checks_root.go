package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/dag"
	"github.com/specialistvlad/buildcheck/internal/fsutil"
	"github.com/specialistvlad/buildcheck/internal/hclutil"
	"github.com/specialistvlad/buildcheck/internal/projectpath"
	"github.com/specialistvlad/buildcheck/internal/resolve"
)

var rootSubject = projectpath.Root().String()

type repositoryList struct {
	label   string
	sources []config.StringValue
}

func repositoryLists(model *config.Model) []repositoryList {
	var lists []repositoryList
	if model.Buildscript != nil {
		lists = append(lists, repositoryList{"buildscript", model.Buildscript.Repositories})
	}
	if model.Coordinator != nil {
		lists = append(lists, repositoryList{"allprojects", model.Coordinator.Repositories})
	}
	return lists
}

func checkExtraProperties(c *checkContext, emit emitFunc) {
	if c.model.Buildscript == nil {
		return
	}
	if _, err := hclutil.StringMap(resolve.ExtraValue(c.model)); err != nil {
		rng := c.model.Buildscript.ExtraRange
		if rng.Filename == "" {
			rng = c.model.Buildscript.DeclRange
		}
		emit(rootSubject, "buildscript extra: "+err.Error(), rng)
	}
}

func checkRepositorySources(c *checkContext, emit emitFunc) {
	for _, list := range repositoryLists(c.model) {
		for _, src := range list.sources {
			if _, err := resolve.ExpandRepository(src.Value); err != nil {
				emit(rootSubject, fmt.Sprintf("%s: %s", list.label, err), src.Range)
			}
		}
	}
}

func checkDuplicateRepositories(c *checkContext, emit emitFunc) {
	for _, list := range repositoryLists(c.model) {
		seen := make(map[string]config.StringValue)
		for _, src := range list.sources {
			repo, err := resolve.ExpandRepository(src.Value)
			if err != nil {
				continue
			}
			if prev, dup := seen[repo.URL]; dup {
				emit(rootSubject,
					fmt.Sprintf("%s: repository %s is already listed as %q", list.label, repo.URL, prev.Value),
					src.Range)
				continue
			}
			seen[repo.URL] = src
		}
	}
}

func checkOutputDirectory(c *checkContext, emit emitFunc) {
	if !c.opts.CheckWritable {
		return
	}
	dir := resolve.RootBuildDir(c.model)
	if err := fsutil.ProbeWritable(dir); err != nil {
		emit(rootSubject, fmt.Sprintf("output directory %s: %s", dir, err), buildDirRange(c.model))
	}
}

func buildDirRange(model *config.Model) hcl.Range {
	if model.Coordinator == nil {
		return hcl.Range{}
	}
	if model.Coordinator.BuildDir.Range.Filename != "" {
		return model.Coordinator.BuildDir.Range
	}
	return model.Coordinator.DeclRange
}

func checkEvaluationTargets(c *checkContext, emit emitFunc) {
	if c.model.Coordinator == nil {
		return
	}
	for _, target := range c.model.Coordinator.EvaluationDependsOn {
		p, err := projectpath.Parse(target.Value)
		if err != nil {
			emit(rootSubject, err.Error(), target.Range)
			c.skipCycles = true
			continue
		}
		if p.IsRoot() {
			continue
		}
		if len(p.Segments) != 1 || c.model.Module(p.Name()) == nil {
			emit(rootSubject, fmt.Sprintf("evaluation dependency on unknown project %q", p.String()), target.Range)
			c.skipCycles = true
		}
	}
}

func checkEvaluationCycles(c *checkContext, emit emitFunc) {
	if c.skipCycles || c.model.Coordinator == nil || len(c.model.Coordinator.EvaluationDependsOn) == 0 {
		return
	}
	g, err := resolve.EvaluationGraph(c.model)
	if err != nil {
		return
	}
	var cycleErr *dag.CycleError
	if err := g.DetectCycles(); errors.As(err, &cycleErr) {
		emit(rootSubject,
			"evaluation ordering contains a cycle: "+strings.Join(cycleErr.Path, " -> "),
			c.model.Coordinator.EvaluationDependsOn[0].Range)
	}
}

func checkTasks(c *checkContext, emit emitFunc) {
	if c.model.Coordinator == nil {
		return
	}
	extra := resolve.ExtraValue(c.model)
	for _, t := range c.model.Coordinator.Tasks {
		if err := resolve.CheckTask(t, extra); err != nil {
			emit(rootSubject, err.Error(), t.DeclRange)
		}
	}
}
