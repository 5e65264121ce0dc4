package dag

import "fmt"

// TopologicalSort returns every node ID such that each node comes after all
// of its dependencies. Among nodes whose dependencies are satisfied, the one
// added first goes first, so the result is deterministic.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	pending := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		pending[id] = len(n.deps)
	}

	sorted := make([]string, 0, len(g.nodes))
	done := make(map[string]bool, len(g.nodes))
	for len(sorted) < len(g.order) {
		progressed := false
		for _, id := range g.order {
			if done[id] || pending[id] > 0 {
				continue
			}
			done[id] = true
			sorted = append(sorted, id)
			for dep := range g.nodes[id].dependents {
				pending[dep]--
			}
			progressed = true
			// Restart from the oldest node so earlier additions keep priority.
			break
		}
		if !progressed {
			var stuck []string
			for _, id := range g.order {
				if !done[id] {
					stuck = append(stuck, id)
				}
			}
			return nil, fmt.Errorf("cycle detected among nodes %v", stuck)
		}
	}
	return sorted, nil
}
