package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// webhookDoc is the §4.6 example: a webhook trigger feeding an HTTP request
// that feeds a code node, used by S6 and the determinism property below.
const webhookDoc = `{
  "id": "wf_1",
  "name": "Webhook to code",
  "nodes": [
    {
      "id": "1",
      "name": "Webhook",
      "type": "n8n-nodes-base.webhook",
      "parameters": {"path": "/hooks/incoming"},
      "position": [100, 200]
    },
    {
      "id": "2",
      "name": "Fetch",
      "type": "n8n-nodes-base.httpRequest",
      "parameters": {"url": "https://api.example.com/data"},
      "position": [300, 200]
    },
    {
      "id": "3",
      "name": "Transform",
      "type": "n8n-nodes-base.code",
      "parameters": {"jsCode": "return items[0].json;"},
      "position": [500, 200]
    }
  ],
  "connections": {
    "Webhook": {"main": [[{"node": "Fetch"}]]},
    "Fetch": {"main": [[{"node": "Transform"}]]}
  }
}`

// TestImportJSON_S6WebhookHTTPCode covers S6: webhook -> httpRequest -> code
// maps to trigger_webhook/http_request/python_sandbox, 2 edges, one trigger,
// a default GET method and the code body lifted from jsCode.
func TestImportJSON_S6WebhookHTTPCode(t *testing.T) {
	result, err := ImportJSON([]byte(webhookDoc))
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	wf := result.Workflow
	require.Len(t, wf.Nodes, 3)
	assert.Equal(t, "manus_wf_1", wf.ID)

	assert.Equal(t, "node_1", wf.Nodes[0].ID)
	assert.Equal(t, "trigger_webhook", wf.Nodes[0].SkillID)
	assert.Equal(t, "node_2", wf.Nodes[1].ID)
	assert.Equal(t, "http_request", wf.Nodes[1].SkillID)
	assert.Equal(t, "node_3", wf.Nodes[2].ID)
	assert.Equal(t, "python_sandbox", wf.Nodes[2].SkillID)

	assert.Equal(t, []string{"node_1"}, wf.Triggers)

	require.Len(t, wf.Edges, 2)
	assert.Equal(t, "node_1", wf.Edges[0].Source)
	assert.Equal(t, "node_2", wf.Edges[0].Target)
	assert.Equal(t, "node_2", wf.Edges[1].Source)
	assert.Equal(t, "node_3", wf.Edges[1].Target)

	node2 := wf.Nodes[1]
	assert.Equal(t, "GET", node2.Parameters["method"])

	node3 := wf.Nodes[2]
	assert.Equal(t, "return items[0].json;", node3.Parameters["code"])
}

// TestConvert_Deterministic covers testable property 7: repeated calls on
// the same document yield structurally identical workflows. This is the
// property that would have caught edges being built from a map range.
func TestConvert_Deterministic(t *testing.T) {
	first, err := ImportJSON([]byte(webhookDoc))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := ImportJSON([]byte(webhookDoc))
		require.NoError(t, err)
		assert.Equal(t, first.Workflow, again.Workflow, "convert must be pure across repeated calls")
		assert.Equal(t, first.Errors, again.Errors)
	}
}

// TestImportJSON_FanOutEdgeOrderStable exercises a node with multiple
// outgoing connections declared across several map entries, guarding
// against edge order drifting between calls.
func TestImportJSON_FanOutEdgeOrderStable(t *testing.T) {
	doc := `{
  "id": "fanout",
  "name": "Fan-out",
  "nodes": [
    {"id": "1", "name": "Start", "type": "n8n-nodes-base.manualTrigger"},
    {"id": "2", "name": "Left", "type": "n8n-nodes-base.httpRequest"},
    {"id": "3", "name": "Right", "type": "n8n-nodes-base.httpRequest"},
    {"id": "4", "name": "Merge", "type": "n8n-nodes-base.merge"}
  ],
  "connections": {
    "Start": {"main": [[{"node": "Left"}, {"node": "Right"}]]},
    "Left": {"main": [[{"node": "Merge"}]]},
    "Right": {"main": [[{"node": "Merge"}]]}
  }
}`

	first, err := ImportJSON([]byte(doc))
	require.NoError(t, err)
	require.Len(t, first.Workflow.Edges, 4)

	for i := 0; i < 20; i++ {
		again, err := ImportJSON([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, first.Workflow.Edges, again.Workflow.Edges)
	}
}

// TestImportJSON_InvalidDocumentReportsErrors verifies the importer never
// raises for a structurally invalid document; errors flow through Result.
func TestImportJSON_InvalidDocumentReportsErrors(t *testing.T) {
	doc := `{
  "id": "",
  "name": "",
  "nodes": [
    {"id": "1", "name": "Only node", "type": "n8n-nodes-base.httpRequest"}
  ],
  "connections": {}
}`
	result, err := ImportJSON([]byte(doc))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Errors, "a workflow with no trigger should fail validation")
}

// TestImportJSON_MalformedJSONReturnsError covers the one case the importer
// does surface as a Go error: a document that cannot be parsed at all.
func TestImportJSON_MalformedJSONReturnsError(t *testing.T) {
	_, err := ImportJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestImportYAML_S6WebhookHTTPCode(t *testing.T) {
	doc := `
id: wf_1
name: Webhook to code
nodes:
  - id: "1"
    name: Webhook
    type: n8n-nodes-base.webhook
    parameters:
      path: /hooks/incoming
  - id: "2"
    name: Fetch
    type: n8n-nodes-base.httpRequest
    parameters:
      url: https://api.example.com/data
  - id: "3"
    name: Transform
    type: n8n-nodes-base.code
    parameters:
      jsCode: "return items[0].json;"
connections:
  Webhook:
    main:
      - - node: Fetch
  Fetch:
    main:
      - - node: Transform
`
	result, err := ImportYAML([]byte(doc))
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	wf := result.Workflow
	require.Len(t, wf.Nodes, 3)
	require.Len(t, wf.Edges, 2)
	assert.Equal(t, []string{"node_1"}, wf.Triggers)
	assert.Equal(t, "python_sandbox", wf.Nodes[2].SkillID)
	assert.Equal(t, "return items[0].json;", wf.Nodes[2].Parameters["code"])
}

func TestImportYAML_MalformedYAMLReturnsError(t *testing.T) {
	_, err := ImportYAML([]byte("not: [valid"))
	assert.Error(t, err)
}
