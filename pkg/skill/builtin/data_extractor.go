package builtin

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// DataExtractor walks dotted paths over previous_outputs, extracting and
// merging fields. It also backs n8n's merge/set/split-mapped nodes, per
// SPEC_FULL.md §4.7. Grounded on the teacher's data-reshaping executors
// (merge.go/transform.go), reimplemented as a single dotted-path walker
// since no third-party JSON-path library appears anywhere in the pack.
type DataExtractor struct {
	skill.BaseSkill
}

func NewDataExtractor() *DataExtractor { return &DataExtractor{} }

func (s *DataExtractor) Definition() skill.Definition {
	return skill.Definition{
		ID:          "data_extractor",
		Name:        "Data Extractor",
		Description: "Extracts and merges fields from upstream node outputs by dotted path.",
		Category:    skill.CategoryExecution,
		Parameters: []skill.Parameter{
			{Name: "paths", Type: "array", Required: false, Description: "Dotted paths to extract, e.g. nodeA.user.name"},
		},
		Outputs: []skill.Output{
			{Name: "extracted", Type: "object", Description: "Flattened extracted values keyed by path"},
			{Name: "merged", Type: "object", Description: "Shallow merge of every upstream node's outputs"},
		},
		TimeoutSeconds: 30,
		Icon:           "filter",
		Color:          "#059669",
	}
}

func (s *DataExtractor) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *DataExtractor) Execute(_ context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()

	merged := map[string]any{}
	for _, outputs := range ic.PreviousOutputs {
		for k, v := range outputs {
			merged[k] = v
		}
	}

	extracted := map[string]any{}
	if rawPaths, ok := ic.Inputs["paths"]; ok {
		for _, p := range toStringSlice(rawPaths) {
			if v, ok := lookupPath(ic.PreviousOutputs, p); ok {
				extracted[p] = v
			}
		}
	}

	res := skill.Succeeded(map[string]any{
		"extracted": extracted,
		"merged":    merged,
	}, "extracted "+strconv.Itoa(len(extracted))+" path(s)")
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

// toStringSlice coerces a JSON-decoded array (or comma-separated string)
// into a string slice.
func toStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		parts := strings.Split(t, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return nil
	}
}

// lookupPath walks a dotted path where the first segment selects a node id
// in previousOutputs and the remaining segments walk nested maps.
func lookupPath(previousOutputs map[string]map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")
	if len(segments) == 0 {
		return nil, false
	}
	outputs, ok := previousOutputs[segments[0]]
	if !ok {
		return nil, false
	}
	var cur any = outputs
	for _, seg := range segments[1:] {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
