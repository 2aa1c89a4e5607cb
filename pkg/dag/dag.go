// Package dag builds the dependency graph out of a workflow's nodes and
// edges and produces the deterministic topological order used by both the
// validator (cycle detection) and the public GetExecutionOrder query.
package dag

import (
	"fmt"

	"github.com/smilemakc/flowcore/pkg/models"
)

// Graph is an immutable view over one workflow's dependency structure.
// NodeOrder preserves the workflow's authoring order; Dependencies maps a
// node id to the set of node ids that must reach a terminal state before it
// may run.
type Graph struct {
	NodeOrder    []string
	Dependencies map[string][]string
	dependents   map[string][]string
}

// Build derives a Graph from a workflow's nodes and edges. It performs no
// validation beyond what is needed to construct the maps; structural
// validity is the validator's job (see pkg/dag/validate.go).
func Build(w *models.Workflow) *Graph {
	g := &Graph{
		NodeOrder:    make([]string, 0, len(w.Nodes)),
		Dependencies: make(map[string][]string, len(w.Nodes)),
		dependents:   make(map[string][]string, len(w.Nodes)),
	}
	for _, n := range w.Nodes {
		g.NodeOrder = append(g.NodeOrder, n.ID)
		g.Dependencies[n.ID] = nil
	}
	for _, e := range w.Edges {
		g.Dependencies[e.Target] = append(g.Dependencies[e.Target], e.Source)
		g.dependents[e.Source] = append(g.dependents[e.Source], e.Target)
	}
	return g
}

// ReadySet returns the node ids, in NodeOrder, whose dependencies are all
// present in completed and which are not themselves in completed or
// running.
func (g *Graph) ReadySet(completed, running map[string]bool) []string {
	var ready []string
	for _, id := range g.NodeOrder {
		if completed[id] || running[id] {
			continue
		}
		if dependenciesSatisfied(g.Dependencies[id], completed) {
			ready = append(ready, id)
		}
	}
	return ready
}

func dependenciesSatisfied(deps []string, completed map[string]bool) bool {
	for _, d := range deps {
		if !completed[d] {
			return false
		}
	}
	return true
}

// TopologicalOrder runs Kahn's algorithm: compute in-degrees, then make
// repeated passes over NodeOrder. Each pass emits, in NodeOrder, every
// not-yet-emitted node whose in-degree is zero at the moment the pass
// reaches it, decrementing its successors' in-degree as it goes; passes
// repeat until one emits nothing. Walking NodeOrder (rather than a FIFO
// seeded in whatever order edges were declared) is what makes ties among
// ready nodes break by input order, per SPEC_FULL.md §4.2, regardless of
// the order their edges happen to appear in. If fewer nodes are emitted
// than exist, a cycle exists among the rest.
func (g *Graph) TopologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.NodeOrder))
	for _, id := range g.NodeOrder {
		indegree[id] = len(g.Dependencies[id])
	}

	done := make(map[string]bool, len(g.NodeOrder))
	order := make([]string, 0, len(g.NodeOrder))

	for len(order) < len(g.NodeOrder) {
		progressed := false
		for _, id := range g.NodeOrder {
			if done[id] || indegree[id] != 0 {
				continue
			}
			done[id] = true
			order = append(order, id)
			progressed = true
			for _, dependent := range g.dependents[id] {
				indegree[dependent]--
			}
		}
		if !progressed {
			break
		}
	}

	if len(order) != len(g.NodeOrder) {
		return nil, fmt.Errorf("%w: %d of %d nodes reachable in topological order", models.ErrCyclicDependency, len(order), len(g.NodeOrder))
	}
	return order, nil
}
