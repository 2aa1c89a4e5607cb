package models

import "fmt"

// NodeKind enumerates the position a node occupies in the DAG.
type NodeKind string

const (
	NodeKindTrigger   NodeKind = "trigger"
	NodeKindSkill     NodeKind = "skill"
	NodeKindCondition NodeKind = "condition"
	NodeKindMerge     NodeKind = "merge"
	NodeKindOutput    NodeKind = "output"
)

// Position is the visual placement of a node in an authoring tool; it has
// no bearing on scheduling.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Condition is one branch rule attached to a condition node, as produced by
// the n8n importer or authored directly.
type Condition struct {
	Type   string `json:"type,omitempty"`
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
	Output int    `json:"output"`
}

// Node is a single vertex of the workflow DAG. Every non-trigger node must
// carry a non-empty SkillID; the validator enforces this before the runner
// will accept the workflow. Whether the id resolves in the skill registry
// is not checked there: an unresolvable id fails that node at run time
// with "Skill not found: <id>".
type Node struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        NodeKind       `json:"type"`
	SkillID     string         `json:"skill_id,omitempty"`
	Parameters  map[string]any `json:"parameters"`
	Position    Position       `json:"position"`
	Connections []string       `json:"connections,omitempty"`
	Conditions  []Condition    `json:"conditions,omitempty"`
}

// Validate checks the node's own fields in isolation (no graph context).
func (n *Node) Validate() error {
	if n.ID == "" {
		return &ValidationError{Field: "id", Message: "node ID is required"}
	}
	if n.Name == "" {
		return &ValidationError{Field: "name", Message: "node name is required"}
	}
	if n.Type == "" {
		return &ValidationError{Field: "type", Message: "node type is required"}
	}
	return nil
}

// Edge is a directed connection between two nodes. OutputIndex distinguishes
// multiple outgoing branches from the same source (e.g. a condition node's
// true/false arms).
type Edge struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	OutputIndex int    `json:"output_index"`
}

// Validate checks the edge's own fields in isolation.
func (e *Edge) Validate() error {
	if e.ID == "" {
		return &ValidationError{Field: "id", Message: "edge ID is required"}
	}
	if e.Source == "" {
		return &ValidationError{Field: "source", Message: "edge source is required"}
	}
	if e.Target == "" {
		return &ValidationError{Field: "target", Message: "edge target is required"}
	}
	if e.OutputIndex < 0 {
		return &ValidationError{Field: "output_index", Message: "must be >= 0"}
	}
	return nil
}

// Workflow is the complete, immutable-during-execution DAG document.
type Workflow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Nodes       []*Node        `json:"nodes"`
	Edges       []*Edge        `json:"edges"`
	Triggers    []string       `json:"triggers"`
	Settings    map[string]any `json:"settings,omitempty"`
	CreatedAt   string         `json:"created_at,omitempty"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
}

// GetNode returns a node by id.
func (w *Workflow) GetNode(id string) (*Node, error) {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, ErrNodeNotFound
}

// GetEdge returns an edge by id.
func (w *Workflow) GetEdge(id string) (*Edge, error) {
	for _, e := range w.Edges {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrEdgeNotFound
}

// AddNode appends a node, rejecting duplicate ids.
func (w *Workflow) AddNode(n *Node) error {
	if err := n.Validate(); err != nil {
		return err
	}
	for _, existing := range w.Nodes {
		if existing.ID == n.ID {
			return &ValidationError{Field: "id", Message: "node ID already exists"}
		}
	}
	w.Nodes = append(w.Nodes, n)
	return nil
}

// AddEdge appends an edge, rejecting duplicate ids and references to
// missing nodes.
func (w *Workflow) AddEdge(e *Edge) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := w.GetNode(e.Source); err != nil {
		return &ValidationError{Field: "source", Message: fmt.Sprintf("source node %q does not exist", e.Source)}
	}
	if _, err := w.GetNode(e.Target); err != nil {
		return &ValidationError{Field: "target", Message: fmt.Sprintf("target node %q does not exist", e.Target)}
	}
	for _, existing := range w.Edges {
		if existing.ID == e.ID {
			return &ValidationError{Field: "id", Message: "edge ID already exists"}
		}
	}
	w.Edges = append(w.Edges, e)
	return nil
}

// RemoveNode removes a node and every edge touching it.
func (w *Workflow) RemoveNode(id string) error {
	found := false
	for i, n := range w.Nodes {
		if n.ID == id {
			w.Nodes = append(w.Nodes[:i], w.Nodes[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return ErrNodeNotFound
	}

	kept := w.Edges[:0]
	for _, e := range w.Edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	w.Edges = kept

	for i, t := range w.Triggers {
		if t == id {
			w.Triggers = append(w.Triggers[:i], w.Triggers[i+1:]...)
			break
		}
	}
	return nil
}

// RemoveEdge removes an edge by id.
func (w *Workflow) RemoveEdge(id string) error {
	for i, e := range w.Edges {
		if e.ID == id {
			w.Edges = append(w.Edges[:i], w.Edges[i+1:]...)
			return nil
		}
	}
	return ErrEdgeNotFound
}

// Clone returns a deep copy of the workflow via JSON round-trip, matching
// the teacher's Clone semantics.
func (w *Workflow) Clone() (*Workflow, error) {
	return cloneJSON(w)
}
