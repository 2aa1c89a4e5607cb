package builtin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/sashabaranov/go-openai"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// DynamicPlanner evaluates a boolean/branching expr expression against
// inputs/previous_outputs, or, when an LLM is configured, asks it to pick a
// named branch among a set of candidates. Grounded on the teacher's
// ConditionalExecutor (pkg/executor/builtin/conditional.go) for the
// expr-evaluation path.
type DynamicPlanner struct {
	skill.BaseSkill
}

func NewDynamicPlanner() *DynamicPlanner { return &DynamicPlanner{} }

func (s *DynamicPlanner) Definition() skill.Definition {
	return skill.Definition{
		ID:          "dynamic_planner",
		Name:        "Dynamic Planner",
		Description: "Evaluates a branch expression or delegates branch selection to an LLM.",
		Category:    skill.CategoryCognitive,
		Parameters: []skill.Parameter{
			{Name: "expr", Type: "string", Required: false, Description: "expr-lang boolean expression evaluated against input/previous_outputs"},
			{Name: "branches", Type: "array", Required: false, Description: "Named branches for the LLM to choose among"},
			{Name: "openai_api_key", Type: "string", Required: false, Description: "When set, branch selection is delegated to the configured LLM"},
			{Name: "model", Type: "string", Required: false, Default: "gpt-4o-mini"},
		},
		Outputs: []skill.Output{
			{Name: "branch", Type: "string", Description: "Selected branch name"},
			{Name: "matched", Type: "boolean", Description: "Whether the expression matched / a branch was selected"},
		},
		TimeoutSeconds: 60,
		Icon:           "git-branch",
		Color:          "#7c3aed",
	}
}

func (s *DynamicPlanner) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *DynamicPlanner) Execute(ctx context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()

	apiKey, _ := s.GetString(ic.Inputs, "openai_api_key")
	if apiKey != "" {
		if branches, ok := ic.Inputs["branches"]; ok {
			branch, err := s.pickBranchWithLLM(ctx, apiKey, s.GetStringDefault(ic.Inputs, "model", "gpt-4o-mini"), toStringSlice(branches), ic)
			if err != nil {
				r := skill.Failed(err)
				r.DurationMs = time.Since(start).Milliseconds()
				return r
			}
			res := skill.Succeeded(map[string]any{"branch": branch, "matched": branch != ""}, "llm selected branch "+branch)
			res.DurationMs = time.Since(start).Milliseconds()
			return res
		}
	}

	exprStr, ok := s.GetString(ic.Inputs, "expr")
	if !ok || exprStr == "" {
		res := skill.Succeeded(map[string]any{"branch": "", "matched": false}, "no expr or branches configured")
		res.DurationMs = time.Since(start).Milliseconds()
		return res
	}

	env := map[string]any{
		"input":    ic.Inputs,
		"previous": ic.PreviousOutputs,
	}
	output, err := expr.Eval(exprStr, env)
	if err != nil {
		r := skill.Failed(fmt.Errorf("failed to evaluate expression: %w", err))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	matched, _ := output.(bool)
	branch := "false"
	if matched {
		branch = "true"
	}
	res := skill.Succeeded(map[string]any{"branch": branch, "matched": matched}, fmt.Sprintf("expression evaluated to %v", output))
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

func (s *DynamicPlanner) pickBranchWithLLM(ctx context.Context, apiKey, model string, branches []string, ic *skill.InvocationContext) (string, error) {
	client := openai.NewClient(apiKey)
	prompt := fmt.Sprintf(
		"Given the input %v and candidate branches %s, respond with exactly one branch name and nothing else.",
		ic.Inputs, strings.Join(branches, ", "),
	)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a workflow branch router. Reply with only the branch name."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai branch selection failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
