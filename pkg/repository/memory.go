package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
)

// workflowKey identifies a workflow inside a project
type workflowKey struct {
	projectID  types.ProjectID
	workflowID types.WorkflowID
}

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu        sync.RWMutex
	workflows map[workflowKey]*model.Workflow
	runs      map[workflowKey]map[types.WorkflowRunID]*model.WorkflowRun
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		workflows: make(map[workflowKey]*model.Workflow),
		runs:      make(map[workflowKey]map[types.WorkflowRunID]*model.WorkflowRun),
	}
}

// PutWorkflow saves a workflow to memory
func (m *Memory) PutWorkflow(ctx context.Context, workflow *model.Workflow) error {
	if workflow == nil {
		return goerr.New("workflow is nil")
	}
	if workflow.ID == "" || workflow.ProjectID == "" {
		return goerr.New("workflow ID and project ID are required",
			goerr.V("workflowID", workflow.ID),
			goerr.V("projectID", workflow.ProjectID))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Deep copy to prevent external modifications
	workflowCopy := *workflow
	m.workflows[workflowKey{workflow.ProjectID, workflow.ID}] = &workflowCopy
	return nil
}

// GetWorkflow retrieves a workflow by ID
func (m *Memory) GetWorkflow(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.Workflow, error) {
	if projectID == "" || workflowID == "" {
		return nil, goerr.New("workflow ID and project ID are required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	workflow, exists := m.workflows[workflowKey{projectID, workflowID}]
	if !exists {
		return nil, goerr.Wrap(model.ErrWorkflowNotFound, "failed to get workflow",
			goerr.V("projectID", projectID),
			goerr.V("workflowID", workflowID))
	}

	// Return a copy to prevent external modification
	workflowCopy := *workflow
	return &workflowCopy, nil
}

// ListWorkflows lists workflows of a project ordered by name
func (m *Memory) ListWorkflows(ctx context.Context, projectID types.ProjectID) ([]*model.Workflow, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var workflows []*model.Workflow
	for key, w := range m.workflows {
		if key.projectID == projectID {
			workflowCopy := *w
			workflows = append(workflows, &workflowCopy)
		}
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].Name < workflows[j].Name
	})

	return workflows, nil
}

// PutWorkflowRun saves a workflow run to memory
func (m *Memory) PutWorkflowRun(ctx context.Context, run *model.WorkflowRun) error {
	if run == nil {
		return goerr.New("workflow run is nil")
	}
	if run.ID == "" || run.WorkflowID == "" || run.ProjectID == "" {
		return goerr.New("workflow run ID, workflow ID and project ID are required",
			goerr.V("runID", run.ID))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := workflowKey{run.ProjectID, run.WorkflowID}
	if m.runs[key] == nil {
		m.runs[key] = make(map[types.WorkflowRunID]*model.WorkflowRun)
	}

	runCopy := *run
	m.runs[key][run.ID] = &runCopy
	return nil
}

// ListWorkflowRuns lists all runs of a workflow, newest first
func (m *Memory) ListWorkflowRuns(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) ([]*model.WorkflowRun, error) {
	return m.listRuns(projectID, workflowID, func(*model.WorkflowRun) bool { return true })
}

// ListWorkflowRunsFinishedBetween lists runs finished in [from, to), newest first
func (m *Memory) ListWorkflowRunsFinishedBetween(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, from, to time.Time) ([]*model.WorkflowRun, error) {
	return m.listRuns(projectID, workflowID, func(r *model.WorkflowRun) bool {
		return !r.FinishedAt.IsZero() && !r.FinishedAt.Before(from) && r.FinishedAt.Before(to)
	})
}

func (m *Memory) listRuns(projectID types.ProjectID, workflowID types.WorkflowID, filter func(*model.WorkflowRun) bool) ([]*model.WorkflowRun, error) {
	if projectID == "" || workflowID == "" {
		return nil, goerr.New("workflow ID and project ID are required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var runs []*model.WorkflowRun
	for _, r := range m.runs[workflowKey{projectID, workflowID}] {
		if filter(r) {
			runCopy := *r
			runs = append(runs, &runCopy)
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}

// Close does nothing for memory repository
func (m *Memory) Close() error {
	return nil
}
