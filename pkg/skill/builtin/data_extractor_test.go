package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/flowcore/pkg/skill"
)

func TestDataExtractor_MergeAndExtract(t *testing.T) {
	s := NewDataExtractor()
	ic := &skill.InvocationContext{
		Inputs: map[string]any{"paths": []any{"nodeA.user.name", "nodeB.status"}},
		PreviousOutputs: map[string]map[string]any{
			"nodeA": {"user": map[string]any{"name": "ada"}},
			"nodeB": {"status": "ok"},
		},
	}

	res := s.Execute(context.Background(), ic)
	assert.Equal(t, skill.StatusSuccess, res.Status)

	extracted := res.Outputs["extracted"].(map[string]any)
	assert.Equal(t, "ada", extracted["nodeA.user.name"])
	assert.Equal(t, "ok", extracted["nodeB.status"])

	merged := res.Outputs["merged"].(map[string]any)
	assert.Equal(t, "ok", merged["status"])
}

func TestDataExtractor_NoPaths(t *testing.T) {
	s := NewDataExtractor()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		PreviousOutputs: map[string]map[string]any{"a": {"x": 1}},
	})
	assert.Equal(t, skill.StatusSuccess, res.Status)
	assert.Empty(t, res.Outputs["extracted"])
}

func TestToStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, toStringSlice([]any{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, toStringSlice("a, b"))
	assert.Nil(t, toStringSlice(42))
}
