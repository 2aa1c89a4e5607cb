package engine

import (
	"sync"
	"time"

	"github.com/smilemakc/flowcore/pkg/models"
)

// UpdateKind discriminates the records the streaming bus (C5) emits.
type UpdateKind string

const (
	UpdateExecutionStart    UpdateKind = "execution_start"
	UpdateNode              UpdateKind = "node_update"
	UpdateHeartbeat         UpdateKind = "heartbeat"
	UpdateExecutionComplete UpdateKind = "execution_complete"
)

// Update is one record of an ExecuteStream sequence. Only the fields
// relevant to Kind are populated; JSON consumers should switch on Kind.
type Update struct {
	Kind        UpdateKind          `json:"kind"`
	ExecutionID string              `json:"execution_id"`
	WorkflowID  string              `json:"workflow_id,omitempty"`
	NodeID      string              `json:"node_id,omitempty"`
	Status      string              `json:"status,omitempty"`
	Outputs     map[string]any      `json:"outputs,omitempty"`
	Error       string              `json:"error,omitempty"`
	Logs        []string            `json:"logs,omitempty"`
}

// maxStreamedLogs caps how many of a node's log lines ride along in a
// node_update record, per SPEC_FULL.md §4.4.
const maxStreamedLogs = 5

func lastLogs(logs []string) []string {
	if len(logs) <= maxStreamedLogs {
		return logs
	}
	return logs[len(logs)-maxStreamedLogs:]
}

// notifier is the internal sink the scheduler writes lifecycle events to.
// A nil notifier is valid and means "nobody is observing" (the synchronous
// Execute path uses one); every method below returns early on a nil
// notifier, and safeSend makes each send panic-safe so a closed observer
// channel can never bring down a node's own goroutine.
type notifier struct {
	ch chan<- Update

	mu   sync.Mutex
	last time.Time
}

func (n *notifier) touch() {
	n.mu.Lock()
	n.last = time.Now()
	n.mu.Unlock()
}

// sinceLastUpdate reports how long it has been since any record was sent,
// used by the heartbeat ticker to decide whether one is due.
func (n *notifier) sinceLastUpdate() time.Duration {
	n.mu.Lock()
	defer n.mu.Unlock()
	return time.Since(n.last)
}

func (n *notifier) nodeUpdate(executionID string, ne *models.NodeExecution) {
	if n == nil {
		return
	}
	n.touch()
	safeSend(n.ch, Update{
		Kind:        UpdateNode,
		ExecutionID: executionID,
		NodeID:      ne.NodeID,
		Status:      string(ne.Status),
		Outputs:     ne.Outputs,
		Error:       ne.Error,
		Logs:        lastLogs(ne.Logs),
	})
}

func (n *notifier) executionStart(executionID, workflowID string) {
	if n == nil {
		return
	}
	n.touch()
	safeSend(n.ch, Update{Kind: UpdateExecutionStart, ExecutionID: executionID, WorkflowID: workflowID})
}

func (n *notifier) heartbeat(executionID string) {
	if n == nil {
		return
	}
	n.touch()
	safeSend(n.ch, Update{Kind: UpdateHeartbeat, ExecutionID: executionID})
}

func (n *notifier) executionComplete(executionID string, status models.WorkflowStatus, errMsg string) {
	if n == nil {
		return
	}
	n.touch()
	safeSend(n.ch, Update{Kind: UpdateExecutionComplete, ExecutionID: executionID, Status: string(status), Error: errMsg})
}

// safeSend recovers from a send on a closed channel so a caller racing the
// stream's teardown can never panic the scheduling goroutine.
func safeSend(ch chan<- Update, u Update) {
	defer func() { _ = recover() }()
	ch <- u
}
