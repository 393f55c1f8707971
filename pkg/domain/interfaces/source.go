package interfaces

//go:generate moq -out mocks/source_mock.go -pkg mocks . StatsSource Navigator

import (
	"context"

	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
)

// StatsSource is the source of truth for the three data sets of the
// statistics page
type StatsSource interface {
	GetWorkflow(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.WorkflowSummary, error)
	GetRunHistory(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.RunHistorySummary, error)
	GetHeatmap(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, year int) ([]model.HeatmapBin, error)
}

// Navigator dismisses the statistics page
type Navigator interface {
	Back(ctx context.Context) error
}
