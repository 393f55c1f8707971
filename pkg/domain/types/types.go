package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ProjectID represents a project identifier
type ProjectID string

// String returns the string representation
func (id ProjectID) String() string {
	return string(id)
}

// Validate checks if the project ID is valid (non-empty)
func (id ProjectID) Validate() error {
	if id == "" {
		return goerr.New("project ID cannot be empty")
	}
	return nil
}

// WorkflowID represents a workflow identifier
type WorkflowID string

// String returns the string representation
func (id WorkflowID) String() string {
	return string(id)
}

// Validate checks if the workflow ID is valid (non-empty)
func (id WorkflowID) Validate() error {
	if id == "" {
		return goerr.New("workflow ID cannot be empty")
	}
	return nil
}

// WorkflowRunID represents a single execution of a workflow
type WorkflowRunID string

// String returns the string representation
func (id WorkflowRunID) String() string {
	return string(id)
}

// NewWorkflowRunID creates a new WorkflowRunID
func NewWorkflowRunID() WorkflowRunID {
	return WorkflowRunID(uuid.New().String())
}

// SessionID identifies one open statistics page
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// NewSessionID creates a new SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}
