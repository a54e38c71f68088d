package resolve

import (
	"fmt"
	"slices"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// taskTypes lists the supported task types and the attributes each accepts.
var taskTypes = map[string][]string{
	"Delete": {"delete"},
}

// CheckTask reports whether a task has a supported type, only the
// attributes that type accepts, and attribute values of the right type.
// Values are evaluated against extra with placeholder root directories, so
// anything CheckTask accepts also resolves once the directories are known.
func CheckTask(t *config.Task, extra cty.Value) error {
	allowed, ok := taskTypes[t.Type.Value]
	if !ok {
		return fmt.Errorf("task %q has unsupported type %q", t.Name, t.Type.Value)
	}
	names := make([]string, 0, len(t.Attributes))
	for name := range t.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !slices.Contains(allowed, name) {
			return fmt.Errorf("task %q of type %s does not accept attribute %q", t.Name, t.Type.Value, name)
		}
		if err := checkTaskReferences(t.Name, t.Attributes[name]); err != nil {
			return err
		}
	}

	placeholders := make(map[string]string, len(taskRootAttributes))
	for _, name := range taskRootAttributes {
		placeholders[name] = "<root." + name + ">"
	}
	_, err := decodeTask(t, hclutil.NewEvalContext(extra, placeholders))
	return err
}

// taskRootAttributes are the `root.<name>` values visible to task expressions.
var taskRootAttributes = []string{"dir", "parent_dir", "build_dir"}

// checkTaskReferences rejects references to variables or functions that
// the task evaluation context does not provide.
func checkTaskReferences(task string, expr hcl.Expression) error {
	traversals, functions := hclutil.References(expr)
	for _, tr := range traversals {
		switch tr.RootName() {
		case "extra":
		case "root":
			var name string
			if rel := tr.SimpleSplit().Rel; len(rel) > 0 {
				if attr, ok := rel[0].(hcl.TraverseAttr); ok {
					name = attr.Name
				}
			}
			if !slices.Contains(taskRootAttributes, name) {
				return fmt.Errorf("task %q references unknown value %s at %s", task, hclutil.TraversalKey(tr), tr.SourceRange())
			}
		default:
			return fmt.Errorf("task %q references unknown variable %s at %s", task, hclutil.TraversalKey(tr), tr.SourceRange())
		}
	}
	known := hclutil.Functions()
	for _, fn := range functions {
		if _, ok := known[fn]; !ok {
			return fmt.Errorf("task %q calls unknown function %q", task, fn)
		}
	}
	return nil
}

// decodeTask evaluates the attributes of a checked task.
func decodeTask(t *config.Task, evalCtx *hcl.EvalContext) (*Task, error) {
	rt := &Task{Name: t.Name, Type: t.Type.Value}
	if expr, ok := t.Attributes["delete"]; ok {
		if diags := gohcl.DecodeExpression(expr, evalCtx, &rt.Delete); diags.HasErrors() {
			return nil, fmt.Errorf("task %q: %w", t.Name, diags)
		}
	}
	return rt, nil
}

// resolveTasks evaluates the deferred task attributes once the output
// directory is known.
func resolveTasks(tasks []*config.Task, extra cty.Value, evalCtx *hcl.EvalContext) ([]*Task, error) {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if err := CheckTask(t, extra); err != nil {
			return nil, err
		}
		rt, err := decodeTask(t, evalCtx)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
