package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_AddNode(t *testing.T) {
	wf := &Workflow{ID: "wf1", Name: "test"}

	require.NoError(t, wf.AddNode(&Node{ID: "a", Name: "A", Type: NodeKindTrigger}))
	assert.Len(t, wf.Nodes, 1)

	err := wf.AddNode(&Node{ID: "a", Name: "dup", Type: NodeKindTrigger})
	assert.Error(t, err)
}

func TestWorkflow_AddEdge_MissingNode(t *testing.T) {
	wf := &Workflow{ID: "wf1", Name: "test"}
	require.NoError(t, wf.AddNode(&Node{ID: "a", Name: "A", Type: NodeKindTrigger}))

	err := wf.AddEdge(&Edge{ID: "e1", Source: "a", Target: "missing"})
	assert.Error(t, err)
}

func TestWorkflow_GetNode(t *testing.T) {
	wf := &Workflow{ID: "wf1", Name: "test"}
	require.NoError(t, wf.AddNode(&Node{ID: "a", Name: "A", Type: NodeKindTrigger}))

	n, err := wf.GetNode("a")
	require.NoError(t, err)
	assert.Equal(t, "A", n.Name)

	_, err = wf.GetNode("missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestWorkflow_RemoveNode(t *testing.T) {
	wf := &Workflow{ID: "wf1", Name: "test", Triggers: []string{"a"}}
	require.NoError(t, wf.AddNode(&Node{ID: "a", Name: "A", Type: NodeKindTrigger}))
	require.NoError(t, wf.AddNode(&Node{ID: "b", Name: "B", Type: NodeKindSkill}))
	require.NoError(t, wf.AddEdge(&Edge{ID: "e1", Source: "a", Target: "b"}))

	require.NoError(t, wf.RemoveNode("a"))
	assert.Len(t, wf.Nodes, 1)
	assert.Empty(t, wf.Edges, "edges touching the removed node must go with it")
	assert.Empty(t, wf.Triggers, "a removed node drops out of Triggers too")

	err := wf.RemoveNode("a")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestWorkflow_GetEdge(t *testing.T) {
	wf := &Workflow{ID: "wf1", Name: "test"}
	require.NoError(t, wf.AddNode(&Node{ID: "a", Name: "A", Type: NodeKindTrigger}))
	require.NoError(t, wf.AddNode(&Node{ID: "b", Name: "B", Type: NodeKindSkill}))
	require.NoError(t, wf.AddEdge(&Edge{ID: "e1", Source: "a", Target: "b"}))

	e, err := wf.GetEdge("e1")
	require.NoError(t, err)
	assert.Equal(t, "a", e.Source)

	_, err = wf.GetEdge("missing")
	assert.ErrorIs(t, err, ErrEdgeNotFound)

	require.NoError(t, wf.RemoveEdge("e1"))
	assert.Empty(t, wf.Edges)
	assert.ErrorIs(t, wf.RemoveEdge("e1"), ErrEdgeNotFound)
}

func TestWorkflow_Clone(t *testing.T) {
	wf := &Workflow{
		ID:   "wf1",
		Name: "test",
		Nodes: []*Node{
			{ID: "a", Name: "A", Type: NodeKindTrigger, Parameters: map[string]any{"x": 1.0}},
		},
	}

	clone, err := wf.Clone()
	require.NoError(t, err)
	assert.Equal(t, wf.ID, clone.ID)

	clone.Nodes[0].Name = "changed"
	assert.Equal(t, "A", wf.Nodes[0].Name, "clone must not alias the original")
}

func TestNode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr bool
	}{
		{"valid", Node{ID: "a", Name: "A", Type: NodeKindTrigger}, false},
		{"missing id", Node{Name: "A", Type: NodeKindTrigger}, true},
		{"missing name", Node{ID: "a", Type: NodeKindTrigger}, true},
		{"missing type", Node{ID: "a", Name: "A"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
