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

// BashCommander runs a shell command under a context-bound subprocess with
// captured stdout/stderr, grounded the same way as PythonSandbox on the
// teacher's ScriptExecutorConfig contract.
type BashCommander struct {
	skill.BaseSkill
}

func NewBashCommander() *BashCommander { return &BashCommander{} }

func (s *BashCommander) Definition() skill.Definition {
	return skill.Definition{
		ID:          "bash_commander",
		Name:        "Bash Commander",
		Description: "Executes a shell command and captures its output.",
		Category:    skill.CategoryExecution,
		Parameters: []skill.Parameter{
			{Name: "command", Type: "string", Required: true, Description: "Shell command to execute"},
		},
		Outputs: []skill.Output{
			{Name: "stdout", Type: "string"},
			{Name: "stderr", Type: "string"},
			{Name: "exit_code", Type: "number"},
		},
		TimeoutSeconds: 60,
		Icon:           "terminal",
		Color:          "#1f2937",
	}
}

func (s *BashCommander) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *BashCommander) Execute(ctx context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()
	command, _ := s.GetString(ic.Inputs, "command")
	if command == "" {
		r := skill.Failed(errors.New(`missing required parameter "command"`))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
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

	status := skill.StatusSuccess
	errMsg := ""
	if exitCode != 0 {
		status = skill.StatusFailed
		errMsg = "command exited with code " + strconv.Itoa(exitCode)
	}
	return skill.Result{
		Status: status,
		Outputs: map[string]any{
			"stdout":    stdout.String(),
			"stderr":    stderr.String(),
			"exit_code": exitCode,
		},
		Error:      errMsg,
		Logs:       []string{stdout.String()},
		DurationMs: time.Since(start).Milliseconds(),
	}
}
