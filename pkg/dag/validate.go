package dag

import (
	"fmt"

	"github.com/smilemakc/flowcore/pkg/models"
)

// Validate runs the eight structural checks SPEC_FULL.md §4.2 requires and
// returns one error string per violation found; an empty (nil) slice means
// the workflow is valid. The validator never raises — callers inspect the
// returned slice.
func Validate(w *models.Workflow) []string {
	var errs []string

	if w.ID == "" {
		errs = append(errs, "workflow id is required")
	}
	if w.Name == "" {
		errs = append(errs, "workflow name is required")
	}
	if len(w.Nodes) == 0 {
		errs = append(errs, "workflow must contain at least one node")
	}
	if len(w.Triggers) == 0 {
		errs = append(errs, "workflow must declare at least one trigger node")
	}

	nodeIDs := make(map[string]bool, len(w.Nodes))
	for _, n := range w.Nodes {
		if nodeIDs[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node id: %s", n.ID))
			continue
		}
		nodeIDs[n.ID] = true

		if n.Type != models.NodeKindTrigger && n.SkillID == "" {
			errs = append(errs, fmt.Sprintf("node %q of type %q must declare a skill_id", n.ID, n.Type))
		}
	}

	for _, e := range w.Edges {
		if !nodeIDs[e.Source] {
			errs = append(errs, fmt.Sprintf("Edge references unknown source: %s", e.Source))
		}
		if !nodeIDs[e.Target] {
			errs = append(errs, fmt.Sprintf("Edge references unknown target: %s", e.Target))
		}
	}

	// Cycle detection reuses the same topological sort the runner and the
	// public GetExecutionOrder query rely on, so "acyclic" means the same
	// thing everywhere in this codebase.
	if len(nodeIDs) > 0 {
		g := Build(w)
		if _, err := g.TopologicalOrder(); err != nil {
			errs = append(errs, "workflow contains a cycle and cannot be scheduled")
		}
	}

	return errs
}
