// Package importer implements the n8n → internal DAG converter (C7),
// grounded on the teacher's YAMLImporter
// (backend/internal/application/importer/yaml_importer.go): a foreign
// document struct, a validate-then-convert pipeline, and a single internal
// conversion function shared by every wire-encoding entry point.
package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/smilemakc/flowcore/pkg/dag"
	"github.com/smilemakc/flowcore/pkg/models"
)

// document is the foreign n8n workflow shape. Both JSON and YAML entry
// points decode into this one struct, so convert is a pure function of the
// decoded document regardless of wire encoding, per SPEC_FULL.md §4.6.
type document struct {
	ID          string                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Nodes       []foreignNode          `json:"nodes" yaml:"nodes"`
	Connections map[string]connections `json:"connections" yaml:"connections"`
}

type foreignNode struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Type       string         `json:"type" yaml:"type"`
	Parameters map[string]any `json:"parameters" yaml:"parameters"`
	Position   any            `json:"position" yaml:"position"`
}

type connections struct {
	Main [][]connectionTarget `json:"main" yaml:"main"`
}

type connectionTarget struct {
	Node string `json:"node" yaml:"node"`
}

// Result is the outcome of importing a foreign document: the converted
// workflow plus any structural validation errors (§4.2). The importer
// itself never returns a Go error for a structurally invalid document —
// only for a document that cannot be parsed at all.
type Result struct {
	Workflow *models.Workflow
	Errors   []string
}

// ImportJSON decodes a JSON-encoded n8n export and converts it.
func ImportJSON(data []byte) (*Result, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse n8n JSON document: %w", err)
	}
	return convert(&doc), nil
}

// ImportYAML decodes a YAML-encoded n8n export and converts it.
func ImportYAML(data []byte) (*Result, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse n8n YAML document: %w", err)
	}
	return convert(&doc), nil
}

// nodeTypeTable maps a foreign node's lowercased type substring to an
// internal skill id, per SPEC_FULL.md §4.6's node-type table.
var nodeTypeTable = []struct {
	substr string
	skill  string
}{
	{"httprequest", "http_request"},
	{"code", "python_sandbox"},
	{"function", "python_sandbox"},
	{"executecommand", "bash_commander"},
	{"readtextfile", "file_manager"},
	{"writetextfile", "file_manager"},
	{"readbinaryfile", "file_manager"},
	{"writebinaryfile", "file_manager"},
	{"postgres", "database_operator"},
	{"mysql", "database_operator"},
	{"sqlite", "database_operator"},
	{"mongodb", "database_operator"},
	{"openai", "dynamic_planner"},
	{"anthropic", "dynamic_planner"},
	{"langchain", "dynamic_planner"},
	{"htmlextract", "data_extractor"},
	{"set", "data_extractor"},
	{"split", "data_extractor"},
	{"slack", "http_request"},
	{"discord", "http_request"},
	{"telegram", "http_request"},
	{"emailsend", "http_request"},
}

// parameterNameTable maps a foreign parameter key to its internal name,
// per SPEC_FULL.md §4.6's parameter-name table. Unknown keys pass through
// unchanged.
var parameterNameTable = map[string]string{
	"url":            "url",
	"method":         "method",
	"headers":        "headers",
	"body":           "body",
	"authentication": "auth",
	"jsCode":         "code",
	"pythonCode":     "code",
	"code":           "code",
	"fileName":       "path",
	"filePath":       "path",
	"fileContent":    "content",
	"binaryData":     "content",
	"query":          "query",
	"sql":            "query",
	"parameters":     "params",
	"httpMethod":     "method",
	"path":           "webhook_url",
	"responseData":   "payload",
}

// convert translates a decoded foreign document into an internal Workflow
// and validates it, per SPEC_FULL.md §4.6. It never raises; structural
// defects are reported in Result.Errors.
func convert(doc *document) *Result {
	wf := &models.Workflow{
		ID:   workflowID(doc.ID),
		Name: doc.Name,
	}
	if wf.Name == "" {
		wf.Name = "Imported n8n workflow"
	}

	nameToID := make(map[string]string, len(doc.Nodes))
	for _, n := range doc.Nodes {
		nameToID[n.Name] = "node_" + n.ID
	}

	for _, n := range doc.Nodes {
		node := convertNode(n, nameToID)
		wf.Nodes = append(wf.Nodes, node)
		if node.Type == models.NodeKindTrigger {
			wf.Triggers = append(wf.Triggers, node.ID)
		}
	}

	// Edges are emitted by walking doc.Nodes in authoring order and looking
	// up each node's own outgoing connections by name, rather than ranging
	// over doc.Connections directly — Go randomizes map iteration order, and
	// convert must be a pure function of the document (testable property 7).
	for _, n := range doc.Nodes {
		conns, ok := doc.Connections[n.Name]
		if !ok {
			continue
		}
		sourceID := nameToID[n.Name]
		for outputIndex, targets := range conns.Main {
			for _, t := range targets {
				targetID, ok := nameToID[t.Node]
				if !ok {
					continue
				}
				wf.Edges = append(wf.Edges, &models.Edge{
					ID:          fmt.Sprintf("edge_%s_%s", sourceID, targetID),
					Source:      sourceID,
					Target:      targetID,
					OutputIndex: outputIndex,
				})
			}
		}
	}

	return &Result{Workflow: wf, Errors: dag.Validate(wf)}
}

// workflowID applies SPEC_FULL.md §4.6's id-prefixing rule: "manus_" +
// original id, or a fresh 8-hex fallback when the source carries none.
func workflowID(original string) string {
	if original == "" {
		return "manus_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	return "manus_" + original
}

func convertNode(n foreignNode, nameToID map[string]string) *models.Node {
	lowered := strings.ToLower(n.Type)
	node := &models.Node{
		ID:         "node_" + n.ID,
		Name:       n.Name,
		Parameters: map[string]any{},
		Position:   normalizePosition(n.Position),
	}

	switch {
	case containsAny(lowered, "trigger", "webhook", "cron", "schedule"):
		node.Type = models.NodeKindTrigger
		if strings.Contains(lowered, "webhook") {
			node.SkillID = "trigger_webhook"
		} else {
			node.SkillID = "trigger_manual"
		}
	case containsAny(lowered, "if", "switch", "condition"):
		node.Type = models.NodeKindCondition
		node.SkillID = "dynamic_planner"
		node.Conditions = extractConditions(n.Parameters)
	case strings.Contains(lowered, "merge"):
		node.Type = models.NodeKindMerge
		node.SkillID = "data_extractor"
	default:
		node.Type = models.NodeKindSkill
		node.SkillID = resolveSkill(lowered)
	}

	node.Parameters = mapParameters(n.Parameters, lowered)
	return node
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func resolveSkill(loweredType string) string {
	for _, entry := range nodeTypeTable {
		if strings.Contains(loweredType, entry.substr) {
			return entry.skill
		}
	}
	return "http_request"
}

// mapParameters applies the parameter-name table plus the HTTP-ish and
// code/function special cases from SPEC_FULL.md §4.6.
func mapParameters(src map[string]any, loweredType string) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		name, ok := parameterNameTable[k]
		if !ok {
			name = k
		}
		out[name] = v
	}

	if containsAny(loweredType, "http", "webhook", "slack", "discord", "telegram", "emailsend") {
		if _, ok := out["method"]; !ok {
			out["method"] = "GET"
		}
		if _, ok := out["url"]; !ok {
			if p, ok := out["webhook_url"]; ok {
				out["url"] = p
			}
		}
	}

	if containsAny(loweredType, "code", "function") {
		for _, key := range []string{"jsCode", "pythonCode", "code"} {
			if v, ok := src[key]; ok {
				if s, ok := v.(string); ok && s != "" {
					out["code"] = s
					break
				}
			}
		}
	}

	return out
}

// extractConditions builds models.Condition entries from either a
// "conditions" or "rules" parameter list, per SPEC_FULL.md §4.6.
func extractConditions(params map[string]any) []models.Condition {
	if raw, ok := params["conditions"]; ok {
		return conditionsFromList(raw, false)
	}
	if raw, ok := params["rules"]; ok {
		return conditionsFromList(raw, true)
	}
	return nil
}

func conditionsFromList(raw any, indexAsOutput bool) []models.Condition {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]models.Condition, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c := models.Condition{
			Type:  stringField(m, "condition"),
			Left:  stringField(m, "leftValue"),
			Right: stringField(m, "rightValue"),
		}
		if indexAsOutput {
			c.Output = i
		} else {
			c.Output = intField(m, "output", 0)
		}
		out = append(out, c)
	}
	return out
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intField(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// normalizePosition accepts either a [x,y] array or an {x,y} object, per
// SPEC_FULL.md §4.6's position-handling rule.
func normalizePosition(raw any) models.Position {
	switch v := raw.(type) {
	case []any:
		if len(v) >= 2 {
			return models.Position{X: toFloat(v[0]), Y: toFloat(v[1])}
		}
	case map[string]any:
		return models.Position{X: toFloat(v["x"]), Y: toFloat(v["y"])}
	}
	return models.Position{}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	}
	return 0
}
