// Package manager implements the Workflow Manager (C6): an in-memory
// workflow store that drives the Runner, grounded on the teacher's
// WorkflowRepository interface shape (root mbflow.go) simplified to the
// plain in-memory map SPEC_FULL.md's non-goal ("no durable persistence")
// calls for.
package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilemakc/flowcore/pkg/dag"
	"github.com/smilemakc/flowcore/pkg/engine"
	"github.com/smilemakc/flowcore/pkg/models"
)

// timeFormat matches the ISO-8601 wire format SPEC_FULL.md §6 requires for
// CreatedAt/UpdatedAt on a stored workflow document.
const timeFormat = time.RFC3339

// Manager owns the in-memory workflow store and delegates execution to a
// Runner. One Manager instance is constructed at the composition root and
// injected wherever needed, per SPEC_FULL.md §9's explicit-collaborator
// design note.
type Manager struct {
	runner *engine.Runner
	logger zerolog.Logger

	mu        sync.RWMutex
	workflows map[string]*models.Workflow
}

// New builds a Manager backed by runner.
func New(runner *engine.Runner, logger zerolog.Logger) *Manager {
	return &Manager{
		runner:    runner,
		logger:    logger,
		workflows: make(map[string]*models.Workflow),
	}
}

// SaveWorkflow upserts a workflow document, assigning a fresh id when
// absent and stamping created_at/updated_at per SPEC_FULL.md §4.5.
func (m *Manager) SaveWorkflow(wf *models.Workflow) (string, error) {
	if wf == nil {
		return "", fmt.Errorf("%w: nil workflow", models.ErrInvalidWorkflow)
	}

	now := time.Now().UTC().Format(timeFormat)

	m.mu.Lock()
	defer m.mu.Unlock()

	if wf.ID == "" {
		wf.ID = "workflow_" + newHexSuffix(12)
	}
	if wf.CreatedAt == "" {
		if existing, ok := m.workflows[wf.ID]; ok {
			wf.CreatedAt = existing.CreatedAt
		} else {
			wf.CreatedAt = now
		}
	}
	wf.UpdatedAt = now

	m.workflows[wf.ID] = wf
	m.logger.Info().Str("workflow_id", wf.ID).Str("name", wf.Name).Msg("workflow saved")
	return wf.ID, nil
}

// GetWorkflow returns a stored workflow by id.
func (m *Manager) GetWorkflow(id string) (*models.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wf, ok := m.workflows[id]
	if !ok {
		return nil, models.ErrWorkflowNotFound
	}
	return wf, nil
}

// DeleteWorkflow removes a stored workflow, returning whether it existed.
// Deleting a workflow does not affect executions already started from it,
// since the Runner owns its own execution table independently.
func (m *Manager) DeleteWorkflow(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workflows[id]; !ok {
		return false
	}
	delete(m.workflows, id)
	return true
}

// ListWorkflows returns every stored workflow document.
func (m *Manager) ListWorkflows() []*models.Workflow {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Workflow, 0, len(m.workflows))
	for _, wf := range m.workflows {
		out = append(out, wf)
	}
	return out
}

// RunWorkflow looks up id and delegates to the Runner synchronously.
func (m *Manager) RunWorkflow(ctx context.Context, id string, initialContext map[string]any) (*models.WorkflowExecution, error) {
	wf, err := m.GetWorkflow(id)
	if err != nil {
		return nil, err
	}
	return m.runner.Execute(ctx, wf, initialContext)
}

// RunWorkflowStream looks up id and delegates to the Runner's streaming
// entry point.
func (m *Manager) RunWorkflowStream(ctx context.Context, id string, initialContext map[string]any) (<-chan engine.Update, error) {
	wf, err := m.GetWorkflow(id)
	if err != nil {
		return nil, err
	}
	return m.runner.ExecuteStream(ctx, wf, initialContext)
}

// ValidateWorkflow runs the C3 structural validator against a document
// without storing or running it.
func ValidateWorkflow(wf *models.Workflow) []string {
	return dag.Validate(wf)
}

// GetExecution exposes the Runner's execution lookup.
func (m *Manager) GetExecution(executionID string) (*models.WorkflowExecution, bool) {
	return m.runner.GetExecution(executionID)
}

// ListExecutions exposes the Runner's execution listing, optionally
// filtered to one workflow id.
func (m *Manager) ListExecutions(workflowID string) []*models.WorkflowExecution {
	return m.runner.ListExecutions(workflowID)
}

// CancelExecution exposes the Runner's cancellation entry point.
func (m *Manager) CancelExecution(executionID string) bool {
	return m.runner.CancelExecution(executionID)
}
