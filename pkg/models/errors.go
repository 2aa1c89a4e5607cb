// Package models defines the data types shared by the DAG engine, the skill
// registry and the workflow manager.
package models

import "errors"

// Sentinel errors returned by the registry, manager and runner. Callers
// match against these with errors.Is rather than string comparison.
var (
	ErrWorkflowNotFound  = errors.New("workflow not found")
	ErrWorkflowExists    = errors.New("workflow already exists")
	ErrInvalidWorkflow   = errors.New("invalid workflow")
	ErrCyclicDependency  = errors.New("cyclic dependency detected")
	ErrNodeNotFound      = errors.New("node not found")
	ErrEdgeNotFound      = errors.New("edge not found")

	ErrExecutionNotFound = errors.New("execution not found")
	ErrExecutionRunning  = errors.New("execution already running")
	ErrDeadlock          = errors.New("workflow deadlock detected")

	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillExists   = errors.New("skill already registered")
)

// WorkflowError wraps an error with the workflow and operation it occurred
// during.
type WorkflowError struct {
	WorkflowID string
	Operation  string
	Err        error
}

func (e *WorkflowError) Error() string {
	return "workflow " + e.WorkflowID + " " + e.Operation + ": " + e.Err.Error()
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// ExecutionError wraps an error with the execution and, optionally, node it
// occurred during.
type ExecutionError struct {
	ExecutionID string
	NodeID      string
	Err         error
}

func (e *ExecutionError) Error() string {
	msg := "execution " + e.ExecutionID
	if e.NodeID != "" {
		msg += " node " + e.NodeID
	}
	return msg + ": " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ValidationError is a single structural defect found in a workflow
// document.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a list of validation error strings, satisfying error
// so callers that only want a pass/fail signal can still use it as one,
// while validate-style callers read the full slice. Error reports the first
// entry, or "validation failed" for an empty list.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0]
}
