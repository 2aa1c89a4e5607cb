package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/flowcore/pkg/models"
)

func TestValidate_OK(t *testing.T) {
	errs := Validate(linearWorkflow())
	assert.Empty(t, errs)
}

func TestValidate_MissingFields(t *testing.T) {
	wf := &models.Workflow{}
	errs := Validate(wf)
	assert.Contains(t, errs, "workflow id is required")
	assert.Contains(t, errs, "workflow name is required")
	assert.Contains(t, errs, "workflow must contain at least one node")
	assert.Contains(t, errs, "workflow must declare at least one trigger node")
}

func TestValidate_DanglingEdge(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf1",
		Name: "bad",
		Nodes: []*models.Node{
			{ID: "a", Name: "A", Type: models.NodeKindTrigger},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "a", Target: "ghost"},
		},
		Triggers: []string{"a"},
	}
	errs := Validate(wf)
	assert.Contains(t, errs, "Edge references unknown target: ghost")
}

func TestValidate_DuplicateNodeID(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf1",
		Name: "dup",
		Nodes: []*models.Node{
			{ID: "a", Name: "A", Type: models.NodeKindTrigger},
			{ID: "a", Name: "A2", Type: models.NodeKindTrigger},
		},
		Triggers: []string{"a"},
	}
	errs := Validate(wf)
	assert.Contains(t, errs, "duplicate node id: a")
}

func TestValidate_SkillNodeMissingSkillID(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf1",
		Name: "missing skill",
		Nodes: []*models.Node{
			{ID: "a", Name: "A", Type: models.NodeKindTrigger},
			{ID: "b", Name: "B", Type: models.NodeKindSkill},
		},
		Edges:    []*models.Edge{{ID: "e1", Source: "a", Target: "b"}},
		Triggers: []string{"a"},
	}
	errs := Validate(wf)
	assert.Contains(t, errs, `node "b" of type "skill" must declare a skill_id`)
}

func TestValidate_Cycle(t *testing.T) {
	wf := &models.Workflow{
		ID:   "wf1",
		Name: "cyclic",
		Nodes: []*models.Node{
			{ID: "a", Name: "A", Type: models.NodeKindTrigger},
			{ID: "b", Name: "B", Type: models.NodeKindSkill, SkillID: "noop"},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "a"},
		},
		Triggers: []string{"a"},
	}
	errs := Validate(wf)
	assert.Contains(t, errs, "workflow contains a cycle and cannot be scheduled")
}
