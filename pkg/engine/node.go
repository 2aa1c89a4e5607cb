package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/smilemakc/flowcore/pkg/models"
	"github.com/smilemakc/flowcore/pkg/skill"
)

// nodeRunner executes exactly one node to its terminal NodeExecution state,
// per SPEC_FULL.md §4.3's per-node execution steps (a)-(j).
type nodeRunner struct {
	registry *skill.Registry
	tracer   trace.Tracer
	logger   zerolog.Logger
}

func (r *nodeRunner) run(ctx context.Context, wf *models.Workflow, exec *models.WorkflowExecution, node *models.Node, n *notifier) {
	ctx, span := r.tracer.Start(ctx, "node.execute", trace.WithAttributes(
		attribute.String("node.id", node.ID),
		attribute.String("node.type", string(node.Type)),
		attribute.String("skill.id", node.SkillID),
	))
	defer span.End()

	// (a) mark running, timestamp started_at.
	exec.SetNodeStatus(node.ID, models.NodeStatusRunning)
	// (b) node_start is internal bookkeeping only; the stream surfaces
	// terminal transitions as node_update, never the start.
	r.logger.Debug().Str("execution_id", exec.ExecutionID).Str("node_id", node.ID).Msg("node started")

	inputs := synthesizeInputs(node, exec)

	// (c) trigger / skill-less nodes succeed instantly with empty outputs.
	if node.Type == models.NodeKindTrigger || node.SkillID == "" {
		exec.CompleteNode(node.ID, models.NodeStatusSuccess, inputs, map[string]any{}, "", nil, 0, 0)
		r.finish(ctx, span, exec, node, n, codes.Ok)
		return
	}

	// (d) resolve the skill.
	s, ok := r.registry.Get(node.SkillID)
	if !ok {
		r.logger.Debug().Str("node_id", node.ID).Str("skill_id", node.SkillID).Err(models.ErrSkillNotFound).Msg("skill resolution failed")
		errMsg := fmt.Sprintf("Skill not found: %s", node.SkillID)
		exec.CompleteNode(node.ID, models.NodeStatusFailed, inputs, map[string]any{}, errMsg, nil, 0, 0)
		r.finish(ctx, span, exec, node, n, codes.Error)
		return
	}
	def := s.Definition()

	// (e)-(f) build the per-attempt ExecutionContext factory; previous
	// outputs are snapshotted once per node, not once per retry attempt,
	// since they can only grow after this node's own dependencies, which
	// are already terminal by construction of the ready set.
	previous := exec.CompletedOutputs()
	buildContext := func() *skill.InvocationContext {
		return &skill.InvocationContext{
			WorkflowID:      wf.ID,
			NodeID:          node.ID,
			Inputs:          inputs,
			PreviousOutputs: previous,
			Config:          node.Parameters,
			EnvVars:         map[string]string{},
		}
	}

	// (g) invoke under the retry/timeout envelope.
	result, attempts := runWithRetry(ctx, s, buildContext, def)

	// (h)-(i) record the terminal state and mirror outputs into context.
	// retry_count is the number of failed attempts: every attempt but a
	// final success counts, so a node that fails twice then succeeds on
	// its third try reports retry_count=2, and a node that exhausts all
	// attempts reports retry_count=attempts (the last attempt failed too).
	status := models.NodeStatusSuccess
	retryCount := attempts - 1
	if result.Status != skill.StatusSuccess {
		status = models.NodeStatusFailed
		retryCount = attempts
	}
	exec.CompleteNode(node.ID, status, inputs, result.Outputs, result.Error, result.Logs, result.DurationMs, retryCount)

	spanStatus := codes.Ok
	if status == models.NodeStatusFailed {
		spanStatus = codes.Error
	}
	r.finish(ctx, span, exec, node, n, spanStatus)
}

func (r *nodeRunner) finish(ctx context.Context, span trace.Span, exec *models.WorkflowExecution, node *models.Node, n *notifier, status codes.Code) {
	span.SetStatus(status, "")
	ne, _ := exec.NodeExecution(node.ID)
	if ne != nil {
		n.nodeUpdate(exec.ExecutionID, ne)
	}
}

// synthesizeInputs performs SPEC_FULL.md §4.3's input-synthesis merge:
// start from the node's own parameters, then fill in any key missing from
// them with every completed node's outputs. Explicit parameters always win.
func synthesizeInputs(node *models.Node, exec *models.WorkflowExecution) map[string]any {
	inputs := make(map[string]any, len(node.Parameters))
	for k, v := range node.Parameters {
		inputs[k] = v
	}
	for _, outputs := range exec.CompletedOutputs() {
		for k, v := range outputs {
			if _, present := inputs[k]; !present {
				inputs[k] = v
			}
		}
	}
	return inputs
}
