package dag

import "sync"

// Graph is a directed acyclic graph of string IDs; buildcheck uses project
// paths. An edge from A to B means B comes after A. Safe for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
}

// node is one vertex. Callers address nodes by ID only.
type node struct {
	id string
	// deps are the nodes this one comes after.
	deps map[string]*node
	// dependents are the nodes that come after this one.
	dependents map[string]*node
}

// CycleError is returned when the graph contains a cycle. Path lists the
// node IDs along the cycle, starting and ending with the same ID.
type CycleError struct {
	Path []string
}
