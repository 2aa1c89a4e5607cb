package builtin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// FileManager reads/writes/lists files under a sandboxed root directory.
// Grounded the same way as PythonSandbox/BashCommander on the teacher's
// ScriptExecutorConfig-adjacent filesystem contract; stdlib os/path is the
// only grounded choice, since no third-party filesystem library appears in
// the pack.
type FileManager struct {
	skill.BaseSkill
}

func NewFileManager() *FileManager { return &FileManager{} }

func (s *FileManager) Definition() skill.Definition {
	return skill.Definition{
		ID:          "file_manager",
		Name:        "File Manager",
		Description: "Reads, writes or lists files under a sandboxed root directory.",
		Category:    skill.CategoryExecution,
		Parameters: []skill.Parameter{
			{Name: "operation", Type: "string", Required: true, Description: "read, write or list",
				AllowedValues: []string{"read", "write", "list"}},
			{Name: "path", Type: "string", Required: true, Description: "Path relative to the sandbox root"},
			{Name: "content", Type: "string", Required: false, Description: "Content to write (operation=write)"},
			{Name: "sandbox_root", Type: "string", Required: false, Description: "Overrides ic.SandboxPath"},
		},
		Outputs: []skill.Output{
			{Name: "content", Type: "string"},
			{Name: "entries", Type: "array"},
		},
		TimeoutSeconds: 30,
		Icon:           "folder",
		Color:          "#a16207",
	}
}

func (s *FileManager) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *FileManager) Execute(_ context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()
	op, _ := s.GetString(ic.Inputs, "operation")
	rel, _ := s.GetString(ic.Inputs, "path")

	root := s.GetStringDefault(ic.Inputs, "sandbox_root", ic.SandboxPath)
	if root == "" {
		root = os.TempDir()
	}

	fullPath, err := sandboxedPath(root, rel)
	if err != nil {
		r := skill.Failed(err)
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	var outputs map[string]any
	switch op {
	case "read":
		data, readErr := os.ReadFile(fullPath)
		if readErr != nil {
			r := skill.Failed(fmt.Errorf("failed to read %s: %w", rel, readErr))
			r.DurationMs = time.Since(start).Milliseconds()
			return r
		}
		outputs = map[string]any{"content": string(data)}
	case "write":
		content, _ := s.GetString(ic.Inputs, "content")
		if mkErr := os.MkdirAll(filepath.Dir(fullPath), 0o755); mkErr != nil {
			r := skill.Failed(fmt.Errorf("failed to create parent directories: %w", mkErr))
			r.DurationMs = time.Since(start).Milliseconds()
			return r
		}
		if writeErr := os.WriteFile(fullPath, []byte(content), 0o644); writeErr != nil {
			r := skill.Failed(fmt.Errorf("failed to write %s: %w", rel, writeErr))
			r.DurationMs = time.Since(start).Milliseconds()
			return r
		}
		outputs = map[string]any{"content": content}
	case "list":
		entries, readErr := os.ReadDir(fullPath)
		if readErr != nil {
			r := skill.Failed(fmt.Errorf("failed to list %s: %w", rel, readErr))
			r.DurationMs = time.Since(start).Milliseconds()
			return r
		}
		names := make([]any, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		outputs = map[string]any{"entries": names}
	default:
		r := skill.Failed(fmt.Errorf("unknown operation %q", op))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	res := skill.Succeeded(outputs, op+" "+rel)
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

// sandboxedPath joins root and rel, rejecting any path that escapes root
// via ".." traversal.
func sandboxedPath(root, rel string) (string, error) {
	full := filepath.Join(root, rel)
	cleanRoot := filepath.Clean(root)
	if full != cleanRoot && !strings.HasPrefix(full, cleanRoot+string(filepath.Separator)) {
		return "", errors.New("path escapes sandbox root")
	}
	return full, nil
}
