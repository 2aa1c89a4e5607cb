package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/flowcore/pkg/skill"
)

func TestBashCommander_Success(t *testing.T) {
	s := NewBashCommander()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"command": "echo hi"},
	})
	assert.Equal(t, skill.StatusSuccess, res.Status)
	assert.Equal(t, "hi\n", res.Outputs["stdout"])
	assert.Equal(t, 0, res.Outputs["exit_code"])
}

func TestBashCommander_NonZeroExit(t *testing.T) {
	s := NewBashCommander()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"command": "exit 3"},
	})
	assert.Equal(t, skill.StatusFailed, res.Status)
	assert.Equal(t, 3, res.Outputs["exit_code"])
}

func TestBashCommander_MissingCommand(t *testing.T) {
	s := NewBashCommander()
	res := s.Execute(context.Background(), &skill.InvocationContext{Inputs: map[string]any{}})
	assert.Equal(t, skill.StatusFailed, res.Status)
}
