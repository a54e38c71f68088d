package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/buildcheck/internal/resolve"
)

// WriteGraph renders a resolved build graph.
func WriteGraph(w io.Writer, g *resolve.Graph, format Format) error {
	switch format {
	case FormatText:
		return writeGraphText(w, g)
	case FormatJSON:
		return writeJSON(w, g)
	case FormatYAML:
		return writeYAML(w, g)
	case FormatDOT:
		return writeGraphDOT(w, g)
	default:
		return fmt.Errorf("format %q is not supported for build graphs", format)
	}
}

func writeGraphText(w io.Writer, g *resolve.Graph) error {
	var b strings.Builder
	fmt.Fprintf(&b, "root:        %s\n", g.RootDir)
	fmt.Fprintf(&b, "build dir:   %s\n", g.RootBuildDir)
	fmt.Fprintf(&b, "evaluation:  %s\n", strings.Join(g.EvaluationOrder, " -> "))
	writeRepositories(&b, "buildscript repositories", g.BuildscriptRepositories)
	writeRepositories(&b, "repositories", g.Repositories)
	if len(g.BuildscriptClasspath) > 0 {
		b.WriteString("classpath:\n")
		for _, cp := range g.BuildscriptClasspath {
			fmt.Fprintf(&b, "  %s\n", cp)
		}
	}

	for _, p := range g.Projects {
		fmt.Fprintf(&b, "\nproject %s\n", p.Path)
		fmt.Fprintf(&b, "  dir:        %s\n", p.Dir)
		fmt.Fprintf(&b, "  build dir:  %s\n", p.BuildDir)
		fmt.Fprintf(&b, "  namespace:  %s\n", p.Namespace)
		fmt.Fprintf(&b, "  app id:     %s\n", p.ApplicationID)
		fmt.Fprintf(&b, "  sdk:        min %d, target %d, compile %d\n", p.MinSdk, p.TargetSdk, p.CompileSdk)
		fmt.Fprintf(&b, "  version:    %s (%d)\n", p.VersionName, p.VersionCode)
		if p.ReleaseSigning != "" {
			fmt.Fprintf(&b, "  release signing: %s", p.ReleaseSigning)
			if p.ReusesDebugSigning {
				b.WriteString(" (debug credentials)")
			}
			b.WriteString("\n")
		}
		if len(p.Dependencies) > 0 {
			b.WriteString("  dependencies:\n")
			for _, d := range p.Dependencies {
				line := fmt.Sprintf("    %s %s", d.Configuration, d.Coordinate)
				if d.Platform {
					line = fmt.Sprintf("    %s platform(%s)", d.Configuration, d.Coordinate)
				}
				if d.ManagedBy != "" {
					line += " [managed by " + d.ManagedBy + "]"
				}
				b.WriteString(line + "\n")
			}
		}
	}

	if len(g.Tasks) > 0 {
		b.WriteString("\ntasks:\n")
		for _, t := range g.Tasks {
			fmt.Fprintf(&b, "  %s (%s)", t.Name, t.Type)
			if len(t.Delete) > 0 {
				fmt.Fprintf(&b, " delete %s", strings.Join(t.Delete, ", "))
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRepositories(b *strings.Builder, label string, repos []resolve.Repository) {
	if len(repos) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, r := range repos {
		if r.Name != "" {
			fmt.Fprintf(b, "  %s (%s)\n", r.Name, r.URL)
		} else {
			fmt.Fprintf(b, "  %s\n", r.URL)
		}
	}
}

// writeGraphDOT writes the evaluation ordering; an edge a -> b means b is
// evaluated after a.
func writeGraphDOT(w io.Writer, g *resolve.Graph) error {
	var b strings.Builder
	b.WriteString("digraph evaluation {\n")
	b.WriteString("  rankdir=LR;\n")
	for _, id := range g.EvaluationOrder {
		fmt.Fprintf(&b, "  %q;\n", id)
	}
	for _, p := range g.Projects {
		for _, after := range p.EvaluatesAfter {
			fmt.Fprintf(&b, "  %q -> %q;\n", after, p.Path)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
