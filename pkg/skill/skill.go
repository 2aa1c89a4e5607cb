package skill

import (
	"context"
	"fmt"
)

// InvocationContext is the per-invocation envelope the runner builds for
// each node before calling Execute. A fresh InvocationContext is built for
// every attempt (including retries).
type InvocationContext struct {
	WorkflowID      string
	NodeID          string
	Inputs          map[string]any
	PreviousOutputs map[string]map[string]any
	Config          map[string]any
	SandboxPath     string
	EnvVars         map[string]string
}

// Status is the terminal outcome of one skill invocation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is what a skill hands back to the scheduler. Contract: Execute
// must never panic/raise to the caller; any internal failure is reported
// here with Status = StatusFailed and Error populated.
type Result struct {
	Status     Status
	Outputs    map[string]any
	Error      string
	Logs       []string
	DurationMs int64
}

// Failed builds a failed Result carrying the given log lines (none when
// only err is passed), the common shape used by the retry/timeout envelope
// and by skills reporting an error.
func Failed(err error, logs ...string) Result {
	return Result{Status: StatusFailed, Outputs: map[string]any{}, Error: err.Error(), Logs: logs}
}

// Succeeded builds a successful Result.
func Succeeded(outputs map[string]any, logs ...string) Result {
	if outputs == nil {
		outputs = map[string]any{}
	}
	return Result{Status: StatusSuccess, Outputs: outputs, Logs: logs}
}

// Skill is a single unit of work the scheduler invokes per node. A fresh
// instance is produced by the registry's factory for every invocation; no
// skill may retain state across calls.
type Skill interface {
	// Definition is pure and idempotent.
	Definition() Definition
	// ValidateInputs returns one human-readable error per missing required
	// parameter or out-of-range enum value. Unknown keys are permitted.
	ValidateInputs(inputs map[string]any) []string
	// Execute performs the work. It must not panic to the caller; the
	// scheduler enforces the timeout externally and does not trust the
	// skill's own timing.
	Execute(ctx context.Context, ic *InvocationContext) Result
}

// Factory produces a fresh Skill instance per invocation.
type Factory func() Skill

// BaseSkill offers typed parameter lookups shared by every builtin skill,
// grounded on the registry's typed-getter convention.
type BaseSkill struct{}

func (BaseSkill) GetString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (b BaseSkill) GetStringDefault(params map[string]any, key, def string) string {
	if s, ok := b.GetString(params, key); ok {
		return s
	}
	return def
}

func (BaseSkill) GetInt(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func (b BaseSkill) GetIntDefault(params map[string]any, key string, def int) int {
	if n, ok := b.GetInt(params, key); ok {
		return n
	}
	return def
}

func (BaseSkill) GetBool(params map[string]any, key string) (bool, bool) {
	v, ok := params[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func (b BaseSkill) GetBoolDefault(params map[string]any, key string, def bool) bool {
	if v, ok := b.GetBool(params, key); ok {
		return v
	}
	return def
}

func (BaseSkill) GetMap(params map[string]any, key string) (map[string]any, bool) {
	v, ok := params[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// ValidateRequired checks a list of required parameter names against the
// provided inputs and a Definition's allowed-values constraints, returning
// one message per violation.
func ValidateRequired(def Definition, inputs map[string]any) []string {
	var errs []string
	for _, p := range def.Parameters {
		v, present := inputs[p.Name]
		if p.Required && !present {
			errs = append(errs, fmt.Sprintf("missing required parameter %q", p.Name))
			continue
		}
		if !present || len(p.AllowedValues) == 0 {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		allowed := false
		for _, a := range p.AllowedValues {
			if a == s {
				allowed = true
				break
			}
		}
		if !allowed {
			errs = append(errs, fmt.Sprintf("parameter %q value %q is not one of %v", p.Name, s, p.AllowedValues))
		}
	}
	return errs
}
