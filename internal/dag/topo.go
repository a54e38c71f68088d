package dag

import "sort"

// TopologicalOrder returns every node ID such that each node appears after
// all of its dependencies. Among nodes that become ready at the same time the
// lexically smallest ID is emitted first. A *CycleError is returned if no
// complete order exists.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	g.mutex.RLock()
	defer g.mutex.RUnlock()

	indegree := make(map[string]int, len(g.nodes))
	var ready []string
	for id, n := range g.nodes {
		indegree[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		released := false
		for depID := range g.nodes[id].dependents {
			indegree[depID]--
			if indegree[depID] == 0 {
				ready = append(ready, depID)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}
	return order, nil
}
