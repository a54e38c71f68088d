package projectpath

// Separator joins the segments of a project path.
const Separator = ":"

// Path is the structured representation of a project path. The root project
// has no segments.
type Path struct {
	Segments []string
}

// Root returns the path of the root project.
func Root() Path {
	return Path{}
}

// IsRoot reports whether p addresses the root project.
func (p Path) IsRoot() bool {
	return len(p.Segments) == 0
}

// Name returns the last segment of the path, or an empty string for the root.
func (p Path) Name() string {
	if p.IsRoot() {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}
