package model

import (
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/types"
)

// WorkflowRun represents one execution of a workflow
type WorkflowRun struct {
	ID              types.WorkflowRunID `json:"workflow_run_id" yaml:"id"`
	WorkflowID      types.WorkflowID    `json:"workflow_id" yaml:"workflow_id"`
	ProjectID       types.ProjectID     `json:"project_id" yaml:"project_id"`
	Phase           types.RunPhase      `json:"phase" yaml:"phase"`
	ResiliencyScore float64             `json:"resiliency_score" yaml:"resiliency_score"`
	StartedAt       time.Time           `json:"started_at" yaml:"started_at"`
	FinishedAt      time.Time           `json:"finished_at,omitzero" yaml:"finished_at"`
}

// Validate validates the workflow run
func (r *WorkflowRun) Validate() error {
	if r.ID == "" {
		return goerr.New("workflow run ID is required", goerr.T(ErrTagValidation))
	}
	if err := r.WorkflowID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid workflow run", goerr.V("id", r.ID), goerr.T(ErrTagValidation))
	}
	if err := r.ProjectID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid workflow run", goerr.V("id", r.ID), goerr.T(ErrTagValidation))
	}
	if !r.Phase.IsValid() {
		return goerr.New("invalid run phase",
			goerr.V("id", r.ID),
			goerr.V("phase", r.Phase),
			goerr.T(ErrTagValidation))
	}
	if r.ResiliencyScore < 0 || r.ResiliencyScore > 100 {
		return goerr.New("resiliency score must be between 0 and 100",
			goerr.V("id", r.ID),
			goerr.V("score", r.ResiliencyScore),
			goerr.T(ErrTagValidation))
	}
	if r.StartedAt.IsZero() {
		return goerr.New("run start time is required", goerr.V("id", r.ID), goerr.T(ErrTagValidation))
	}
	if r.Phase.IsCompleted() && r.FinishedAt.IsZero() {
		return goerr.New("completed run requires a finish time",
			goerr.V("id", r.ID),
			goerr.T(ErrTagValidation))
	}
	return nil
}

// RunHistorySummary is the run-count summary of one workflow
type RunHistorySummary struct {
	TotalRuns int                   `json:"total_no_of_workflow_runs"`
	RunIDs    []types.WorkflowRunID `json:"workflow_run_ids"` // most recent first
}

// HasRun reports whether the workflow has been executed at least once
func (s *RunHistorySummary) HasRun() bool {
	return s.TotalRuns > 0
}

// LatestRunID returns the most recent run or empty string when there is none
func (s *RunHistorySummary) LatestRunID() types.WorkflowRunID {
	if len(s.RunIDs) == 0 {
		return ""
	}
	return s.RunIDs[0]
}

// SummarizeRuns builds a RunHistorySummary ordered by start time, newest first
func SummarizeRuns(runs []*WorkflowRun) *RunHistorySummary {
	sorted := make([]*WorkflowRun, 0, len(runs))
	for _, r := range runs {
		if r != nil {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})

	ids := make([]types.WorkflowRunID, 0, len(sorted))
	for _, r := range sorted {
		ids = append(ids, r.ID)
	}

	return &RunHistorySummary{
		TotalRuns: len(sorted),
		RunIDs:    ids,
	}
}
