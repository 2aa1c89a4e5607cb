package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/flowcore/pkg/skill"
)

func TestFileManager_WriteThenRead(t *testing.T) {
	dir := t.TempDir()
	s := NewFileManager()

	writeRes := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"operation": "write", "path": "notes/a.txt", "content": "hello", "sandbox_root": dir},
	})
	require.Equal(t, skill.StatusSuccess, writeRes.Status)

	readRes := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"operation": "read", "path": "notes/a.txt", "sandbox_root": dir},
	})
	require.Equal(t, skill.StatusSuccess, readRes.Status)
	assert.Equal(t, "hello", readRes.Outputs["content"])
}

func TestFileManager_List(t *testing.T) {
	dir := t.TempDir()
	s := NewFileManager()
	s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"operation": "write", "path": "x.txt", "content": "1", "sandbox_root": dir},
	})

	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"operation": "list", "path": ".", "sandbox_root": dir},
	})
	require.Equal(t, skill.StatusSuccess, res.Status)
	entries := res.Outputs["entries"].([]any)
	assert.Contains(t, entries, "x.txt")
}

func TestFileManager_RejectsPathEscape(t *testing.T) {
	dir := t.TempDir()
	s := NewFileManager()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"operation": "read", "path": "../../etc/passwd", "sandbox_root": dir},
	})
	assert.Equal(t, skill.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "escapes sandbox root")
}

func TestSandboxedPath(t *testing.T) {
	_, err := sandboxedPath("/tmp/root", "../escape")
	assert.Error(t, err)

	p, err := sandboxedPath("/tmp/root", "sub/file.txt")
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/root/sub/file.txt", p)
}
