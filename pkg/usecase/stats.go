package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
)

// Stats computes workflow statistics from the local repository
type Stats struct {
	repo interfaces.Repository
}

// NewStats creates a new Stats instance
func NewStats(repo interfaces.Repository) *Stats {
	return &Stats{repo: repo}
}

// GetWorkflow returns the workflow metadata
func (uc *Stats) GetWorkflow(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.WorkflowSummary, error) {
	workflow, err := uc.repo.GetWorkflow(ctx, projectID, workflowID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get workflow",
			goerr.V("projectID", projectID),
			goerr.V("workflowID", workflowID))
	}
	return workflow.Summary(), nil
}

// GetRunHistory returns the run count and run IDs of the workflow, most recent first
func (uc *Stats) GetRunHistory(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.RunHistorySummary, error) {
	runs, err := uc.repo.ListWorkflowRuns(ctx, projectID, workflowID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list workflow runs",
			goerr.V("projectID", projectID),
			goerr.V("workflowID", workflowID))
	}
	return model.SummarizeRuns(runs), nil
}

// GetHeatmap returns one bin per UTC calendar day of year
func (uc *Stats) GetHeatmap(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, year int) ([]model.HeatmapBin, error) {
	if year <= 0 {
		return nil, goerr.New("invalid year", goerr.V("year", year), goerr.T(model.ErrTagValidation))
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	runs, err := uc.repo.ListWorkflowRunsFinishedBetween(ctx, projectID, workflowID, from, to)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list workflow runs of year",
			goerr.V("projectID", projectID),
			goerr.V("workflowID", workflowID),
			goerr.V("year", year))
	}
	return model.BuildHeatmapBins(year, runs), nil
}

var _ interfaces.StatsSource = (*Stats)(nil)
