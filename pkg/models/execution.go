package models

import (
	"sync"
	"time"
)

// WorkflowStatus is the lifecycle state of a WorkflowExecution.
type WorkflowStatus string

const (
	WorkflowStatusPending   WorkflowStatus = "pending"
	WorkflowStatusRunning   WorkflowStatus = "running"
	WorkflowStatusCompleted WorkflowStatus = "completed"
	WorkflowStatusFailed    WorkflowStatus = "failed"
	WorkflowStatusCancelled WorkflowStatus = "cancelled"
	WorkflowStatusPaused    WorkflowStatus = "paused"
)

// IsTerminal reports whether the status will never change again.
func (s WorkflowStatus) IsTerminal() bool {
	switch s {
	case WorkflowStatusCompleted, WorkflowStatusFailed, WorkflowStatusCancelled:
		return true
	default:
		return false
	}
}

// NodeStatus is the lifecycle state of a single NodeExecution.
type NodeStatus string

const (
	NodeStatusPending NodeStatus = "pending"
	NodeStatusQueued  NodeStatus = "queued"
	NodeStatusRunning NodeStatus = "running"
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusFailed  NodeStatus = "failed"
	NodeStatusSkipped NodeStatus = "skipped"
)

// IsTerminal reports whether the node status will never change again.
func (s NodeStatus) IsTerminal() bool {
	switch s {
	case NodeStatusSuccess, NodeStatusFailed, NodeStatusSkipped:
		return true
	default:
		return false
	}
}

// NodeExecution is the per-node record within one WorkflowExecution.
type NodeExecution struct {
	NodeID      string         `json:"node_id"`
	Status      NodeStatus     `json:"status"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Inputs      map[string]any `json:"inputs,omitempty"`
	Outputs     map[string]any `json:"outputs,omitempty"`
	Error       string         `json:"error,omitempty"`
	Logs        []string       `json:"logs,omitempty"`
	RetryCount  int            `json:"retry_count"`
	DurationMs  int64          `json:"duration_ms"`
}

// DurationMillis returns the wall-clock span between start and completion,
// or 0 if either timestamp is unset.
func (n *NodeExecution) DurationMillis() int64 {
	if n.StartedAt == nil || n.CompletedAt == nil {
		return 0
	}
	return n.CompletedAt.Sub(*n.StartedAt).Milliseconds()
}

// WorkflowExecution is one run of a Workflow. It is created and owned by
// the Runner for the duration of the run; once terminal it is read-only and
// safe for concurrent observation. Status, the node records and the context
// map change only through the mutex-guarded accessor methods below;
// StartedAt, CompletedAt and Error are plain fields the Runner sets
// directly from its scheduling goroutine.
type WorkflowExecution struct {
	ExecutionID string         `json:"execution_id"`
	WorkflowID  string         `json:"workflow_id"`
	Status      WorkflowStatus `json:"status"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Error       string         `json:"error,omitempty"`

	mu             sync.RWMutex
	nodeExecutions map[string]*NodeExecution
	context        map[string]map[string]any
}

// NewWorkflowExecution builds a fresh execution record with every node
// pre-populated as pending, per SPEC_FULL.md's initialization step.
func NewWorkflowExecution(executionID, workflowID string, nodeIDs []string) *WorkflowExecution {
	we := &WorkflowExecution{
		ExecutionID:    executionID,
		WorkflowID:     workflowID,
		Status:         WorkflowStatusPending,
		nodeExecutions: make(map[string]*NodeExecution, len(nodeIDs)),
		context:        make(map[string]map[string]any, len(nodeIDs)),
	}
	for _, id := range nodeIDs {
		we.nodeExecutions[id] = &NodeExecution{NodeID: id, Status: NodeStatusPending}
	}
	return we
}

// SetStatus atomically transitions the execution's top-level status.
func (w *WorkflowExecution) SetStatus(s WorkflowStatus) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Status = s
}

// GetStatus reads the execution's top-level status.
func (w *WorkflowExecution) GetStatus() WorkflowStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.Status
}

// NodeExecution returns a copy-free pointer to the node's live record.
// Callers must not mutate it directly; use the Set* methods below, which
// take the execution's lock. Fields read through the returned pointer are
// not guarded by that lock; AllNodeExecutions returns copies instead.
func (w *WorkflowExecution) NodeExecution(nodeID string) (*NodeExecution, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ne, ok := w.nodeExecutions[nodeID]
	return ne, ok
}

// AllNodeExecutions returns a snapshot map safe for the caller to range
// over without holding any lock.
func (w *WorkflowExecution) AllNodeExecutions() map[string]*NodeExecution {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]*NodeExecution, len(w.nodeExecutions))
	for k, v := range w.nodeExecutions {
		cp := *v
		out[k] = &cp
	}
	return out
}

// SetNodeStatus transitions a node's status, timestamping started_at /
// completed_at as appropriate.
func (w *WorkflowExecution) SetNodeStatus(nodeID string, status NodeStatus) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ne, ok := w.nodeExecutions[nodeID]
	if !ok {
		return
	}
	ne.Status = status
	now := time.Now()
	switch status {
	case NodeStatusRunning:
		ne.StartedAt = &now
	case NodeStatusSuccess, NodeStatusFailed, NodeStatusSkipped:
		ne.CompletedAt = &now
		if ne.StartedAt != nil {
			ne.DurationMs = ne.CompletedAt.Sub(*ne.StartedAt).Milliseconds()
		}
	}
}

// CompleteNode records the terminal fields of a node's execution in one
// atomic step and mirrors its outputs into the execution-wide context map
// consumed by downstream input synthesis.
func (w *WorkflowExecution) CompleteNode(nodeID string, status NodeStatus, inputs, outputs map[string]any, errMsg string, logs []string, durationMs int64, retryCount int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ne, ok := w.nodeExecutions[nodeID]
	if !ok {
		return
	}
	now := time.Now()
	ne.Status = status
	ne.Inputs = inputs
	ne.Outputs = outputs
	ne.Error = errMsg
	ne.Logs = logs
	ne.DurationMs = durationMs
	ne.RetryCount = retryCount
	ne.CompletedAt = &now
	if outputs == nil {
		outputs = map[string]any{}
	}
	w.context[nodeID] = outputs
}

// SeedContext pre-populates the execution context for a node id without a
// corresponding NodeExecution entry (used for initial_context injection).
func (w *WorkflowExecution) SeedContext(key string, outputs map[string]any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.context[key] = outputs
}

// CompletedOutputs returns a snapshot of every node id's outputs recorded so
// far, suitable for previous_outputs in an ExecutionContext.
func (w *WorkflowExecution) CompletedOutputs() map[string]map[string]any {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]map[string]any, len(w.context))
	for k, v := range w.context {
		out[k] = v
	}
	return out
}

// IncrementRetry bumps a node's retry counter, returning the new value.
func (w *WorkflowExecution) IncrementRetry(nodeID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	ne, ok := w.nodeExecutions[nodeID]
	if !ok {
		return 0
	}
	ne.RetryCount++
	return ne.RetryCount
}

// GetSuccessRate returns the fraction of all the execution's nodes that
// succeeded; nodes not yet terminal count in the denominator.
func (w *WorkflowExecution) GetSuccessRate() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.nodeExecutions) == 0 {
		return 0
	}
	success := 0
	for _, ne := range w.nodeExecutions {
		if ne.Status == NodeStatusSuccess {
			success++
		}
	}
	return float64(success) / float64(len(w.nodeExecutions))
}
