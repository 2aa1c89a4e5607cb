// Package engine implements the Workflow Runner (C4): the ready-set
// scheduler, the retry/timeout envelope, and the streaming update bus (C5).
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/smilemakc/flowcore/pkg/dag"
	"github.com/smilemakc/flowcore/pkg/models"
	"github.com/smilemakc/flowcore/pkg/skill"
)

// reservedInitialContextKey is the node id under which initial_context is
// seeded into an execution's context map, per DESIGN.md's resolution of
// the "triggers' execution" open question. The validator does not reject a
// node declaring this id; such a node's outputs would replace the seeded
// initial context once it completes.
const reservedInitialContextKey = "__initial__"

// Runner is the C4 Workflow Runner. One Runner instance owns the
// process-wide executions table; construct a single instance at the
// composition root and inject it wherever it's needed, per SPEC_FULL.md
// §9's "global singletons are explicitly injected" design note.
type Runner struct {
	registry *skill.Registry
	config   Config
	tracer   trace.Tracer
	logger   zerolog.Logger

	mu         sync.RWMutex
	executions map[string]*models.WorkflowExecution
	cancelFns  map[string]context.CancelFunc
}

// NewRunner builds a Runner. A zero Config is replaced by DefaultConfig.
func NewRunner(registry *skill.Registry, logger zerolog.Logger, config Config) *Runner {
	return &Runner{
		registry:   registry,
		config:     config.withDefaults(),
		tracer:     otel.Tracer("flowcore/engine"),
		logger:     logger,
		executions: make(map[string]*models.WorkflowExecution),
		cancelFns:  make(map[string]context.CancelFunc),
	}
}

// Execute runs a workflow to completion synchronously and returns its final
// WorkflowExecution. Validation failure (a cyclic or otherwise invalid
// graph) is returned as an error and no execution is recorded, per
// SPEC_FULL.md §4.2 ("the Runner refuses to execute").
func (r *Runner) Execute(ctx context.Context, wf *models.Workflow, initialContext map[string]any) (*models.WorkflowExecution, error) {
	exec, runCtx, cancel, err := r.prepare(ctx, wf, initialContext)
	if err != nil {
		return nil, err
	}
	defer cancel()
	r.run(runCtx, wf, exec, nil)
	return exec, nil
}

// ExecuteStream runs a workflow asynchronously, returning a channel of
// Update records terminating in exactly one execution_complete. The
// channel is unbuffered-semantically finite: once execution_complete is
// sent the channel is closed.
func (r *Runner) ExecuteStream(ctx context.Context, wf *models.Workflow, initialContext map[string]any) (<-chan Update, error) {
	exec, runCtx, cancel, err := r.prepare(ctx, wf, initialContext)
	if err != nil {
		return nil, err
	}

	ch := make(chan Update, 32)
	n := &notifier{ch: ch}

	heartbeatDone := make(chan struct{})
	go r.heartbeatLoop(exec, n, heartbeatDone)

	go func() {
		defer cancel()
		defer close(ch)
		defer close(heartbeatDone)
		n.executionStart(exec.ExecutionID, exec.WorkflowID)
		r.run(runCtx, wf, exec, n)
		n.executionComplete(exec.ExecutionID, exec.GetStatus(), exec.Error)
	}()

	return ch, nil
}

// heartbeatLoop synthesizes a heartbeat record whenever no node_update has
// been sent for HeartbeatInterval while the execution is still running,
// per SPEC_FULL.md §4.4. It exits as soon as done is closed.
func (r *Runner) heartbeatLoop(exec *models.WorkflowExecution, n *notifier, done <-chan struct{}) {
	ticker := time.NewTicker(r.config.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if exec.GetStatus() != models.WorkflowStatusRunning {
				continue
			}
			if n.sinceLastUpdate() >= r.config.HeartbeatInterval {
				n.heartbeat(exec.ExecutionID)
			}
		}
	}
}

// prepare validates the workflow, allocates a fresh WorkflowExecution,
// registers it in the executions table, and returns a cancellable context
// derived from ctx.
func (r *Runner) prepare(ctx context.Context, wf *models.Workflow, initialContext map[string]any) (*models.WorkflowExecution, context.Context, context.CancelFunc, error) {
	if errs := dag.Validate(wf); len(errs) > 0 {
		return nil, nil, nil, fmt.Errorf("%w: %v", models.ErrInvalidWorkflow, errs)
	}

	nodeIDs := make([]string, 0, len(wf.Nodes))
	for _, node := range wf.Nodes {
		nodeIDs = append(nodeIDs, node.ID)
	}

	executionID := newExecutionID()
	exec := models.NewWorkflowExecution(executionID, wf.ID, nodeIDs)
	exec.SetStatus(models.WorkflowStatusRunning)
	now := time.Now()
	exec.StartedAt = &now
	if initialContext != nil {
		exec.SeedContext(reservedInitialContextKey, initialContext)
	} else {
		exec.SeedContext(reservedInitialContextKey, map[string]any{})
	}

	runCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.executions[executionID] = exec
	r.cancelFns[executionID] = cancel
	r.mu.Unlock()

	return exec, runCtx, cancel, nil
}

// run drives the ready-set scheduling loop described in SPEC_FULL.md §4.3
// to completion, setting the execution's terminal status and completed_at
// before returning.
func (r *Runner) run(ctx context.Context, wf *models.Workflow, exec *models.WorkflowExecution, n *notifier) {
	ctx, span := r.tracer.Start(ctx, "workflow.execute")
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			exec.Error = fmt.Sprintf("panic: %v", p)
			exec.SetStatus(models.WorkflowStatusFailed)
		}
		now := time.Now()
		exec.CompletedAt = &now
	}()

	g := dag.Build(wf)
	nr := &nodeRunner{registry: r.registry, tracer: r.tracer, logger: r.logger}

	completed := make(map[string]bool, len(g.NodeOrder))
	running := make(map[string]bool)
	total := len(g.NodeOrder)

	for len(completed) < total {
		if exec.GetStatus() == models.WorkflowStatusCancelled || ctx.Err() != nil {
			exec.SetStatus(models.WorkflowStatusCancelled)
			return
		}

		ready := g.ReadySet(completed, running)

		if len(ready) == 0 {
			if len(running) == 0 {
				exec.Error = models.ErrDeadlock.Error()
				exec.SetStatus(models.WorkflowStatusFailed)
				return
			}
			select {
			case <-time.After(r.config.IdleInterval):
			case <-ctx.Done():
			}
			continue
		}

		slots := r.config.MaxParallelNodes - len(running)
		if slots <= 0 {
			select {
			case <-time.After(r.config.IdleInterval):
			case <-ctx.Done():
			}
			continue
		}
		if slots > len(ready) {
			slots = len(ready)
		}
		batch := ready[:slots]

		var wg sync.WaitGroup
		var mu sync.Mutex
		for _, id := range batch {
			running[id] = true
			wg.Add(1)
			go func(nodeID string) {
				defer wg.Done()
				node, err := wf.GetNode(nodeID)
				if err == nil {
					nr.run(ctx, wf, exec, node, n)
				}
				mu.Lock()
				delete(running, nodeID)
				completed[nodeID] = true
				mu.Unlock()
			}(id)
		}
		wg.Wait()
	}

	if exec.GetStatus() == models.WorkflowStatusCancelled {
		return
	}
	exec.SetStatus(models.WorkflowStatusCompleted)
}

// CancelExecution transitions a running execution to cancelled, returning
// whether a transition actually occurred.
func (r *Runner) CancelExecution(executionID string) bool {
	r.mu.RLock()
	exec, ok := r.executions[executionID]
	cancel := r.cancelFns[executionID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if exec.GetStatus() != models.WorkflowStatusRunning {
		return false
	}
	exec.SetStatus(models.WorkflowStatusCancelled)
	if cancel != nil {
		cancel()
	}
	return true
}

// GetExecution looks up an execution by id.
func (r *Runner) GetExecution(executionID string) (*models.WorkflowExecution, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executions[executionID]
	return exec, ok
}

// ListExecutions returns every recorded execution, optionally filtered to
// one workflow id.
func (r *Runner) ListExecutions(workflowID string) []*models.WorkflowExecution {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.WorkflowExecution, 0, len(r.executions))
	for _, exec := range r.executions {
		if workflowID == "" || exec.WorkflowID == workflowID {
			out = append(out, exec)
		}
	}
	return out
}

// GetExecutionOrder exposes the validator's topological sort for callers
// that want to know the deterministic order a DAG would run in without
// actually running it (testable property 8).
func GetExecutionOrder(wf *models.Workflow) ([]string, error) {
	g := dag.Build(wf)
	return g.TopologicalOrder()
}
