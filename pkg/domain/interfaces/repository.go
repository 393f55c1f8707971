package interfaces

//go:generate moq -out mocks/repository_mock.go -pkg mocks . Repository

import (
	"context"
	"time"

	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	// Workflow operations
	PutWorkflow(ctx context.Context, workflow *model.Workflow) error
	GetWorkflow(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.Workflow, error)
	ListWorkflows(ctx context.Context, projectID types.ProjectID) ([]*model.Workflow, error)

	// Workflow run operations
	PutWorkflowRun(ctx context.Context, run *model.WorkflowRun) error
	ListWorkflowRuns(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) ([]*model.WorkflowRun, error)
	// ListWorkflowRunsFinishedBetween returns runs whose finish time is in [from, to)
	ListWorkflowRunsFinishedBetween(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, from, to time.Time) ([]*model.WorkflowRun, error)

	// Close closes the repository connection
	Close() error
}
