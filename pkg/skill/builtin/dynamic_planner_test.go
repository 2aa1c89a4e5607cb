package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/flowcore/pkg/skill"
)

func TestDynamicPlanner_ExprTrue(t *testing.T) {
	s := NewDynamicPlanner()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"expr": `input.value > 5`, "value": 10},
	})
	assert.Equal(t, skill.StatusSuccess, res.Status)
	assert.Equal(t, "true", res.Outputs["branch"])
	assert.Equal(t, true, res.Outputs["matched"])
}

func TestDynamicPlanner_ExprFalse(t *testing.T) {
	s := NewDynamicPlanner()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"expr": `input.value > 5`, "value": 1},
	})
	assert.Equal(t, "false", res.Outputs["branch"])
	assert.Equal(t, false, res.Outputs["matched"])
}

func TestDynamicPlanner_InvalidExpr(t *testing.T) {
	s := NewDynamicPlanner()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"expr": `this is not valid`},
	})
	assert.Equal(t, skill.StatusFailed, res.Status)
}

func TestDynamicPlanner_NoExprOrBranches(t *testing.T) {
	s := NewDynamicPlanner()
	res := s.Execute(context.Background(), &skill.InvocationContext{Inputs: map[string]any{}})
	assert.Equal(t, skill.StatusSuccess, res.Status)
	assert.Equal(t, false, res.Outputs["matched"])
}
