package resolve

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/dag"
	"github.com/specialistvlad/buildcheck/internal/projectpath"
)

// UnknownProjectError reports an evaluation dependency on a project that
// is not part of the build.
type UnknownProjectError struct {
	Path  string
	Range hcl.Range
}

func (e *UnknownProjectError) Error() string {
	return fmt.Sprintf("evaluation dependency on unknown project %q (%s)", e.Path, e.Range)
}

// ProjectPath returns the canonical path of a module.
func ProjectPath(mod *config.Module) string {
	return projectpath.Root().Child(mod.Name).String()
}

// EvaluationGraph builds the configuration-evaluation ordering. The root
// project is evaluated before every subproject, and each
// `evaluation_depends_on` target before every other subproject. A target's
// edge to itself is dropped.
func EvaluationGraph(model *config.Model) (*dag.Graph, error) {
	g := dag.New()
	root := projectpath.Root().String()
	g.AddNode(root)
	for _, mod := range model.Modules {
		g.AddNode(ProjectPath(mod))
	}
	for _, mod := range model.Modules {
		if err := g.AddEdge(root, ProjectPath(mod)); err != nil {
			return nil, err
		}
	}

	if model.Coordinator == nil {
		return g, nil
	}
	for _, target := range model.Coordinator.EvaluationDependsOn {
		p, err := projectpath.Parse(target.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid evaluation dependency at %s: %w", target.Range, err)
		}
		id := p.String()
		if !g.HasNode(id) {
			return nil, &UnknownProjectError{Path: id, Range: target.Range}
		}
		if p.IsRoot() {
			continue
		}
		for _, mod := range model.Modules {
			other := ProjectPath(mod)
			if other == id {
				continue
			}
			if err := g.AddEdge(id, other); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
