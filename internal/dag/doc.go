// Package dag models the configuration-evaluation ordering between projects
// as a directed acyclic graph. An edge from A to B means B's configuration is
// evaluated only after A's has completed.
//
// The graph offers cycle detection and a deterministic topological order, so
// resolving the same configuration twice always yields the same sequence.
package dag
