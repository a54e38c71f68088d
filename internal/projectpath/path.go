package projectpath

import (
	"slices"
	"strings"
)

// String serializes the Path into its canonical form.
func (p Path) String() string {
	return Separator + strings.Join(p.Segments, Separator)
}

// Equal checks whether two paths address the same project.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.Segments, other.Segments)
}

// Parent returns the enclosing project. The parent of the root is the root.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return p
	}
	return Path{Segments: slices.Clone(p.Segments[:len(p.Segments)-1])}
}

// Child returns the path of a direct subproject of p.
func (p Path) Child(name string) Path {
	segs := make([]string, 0, len(p.Segments)+1)
	segs = append(segs, p.Segments...)
	return Path{Segments: append(segs, name)}
}
