package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/utils/metrics"
	"golang.org/x/sync/errgroup"
)

// importConcurrency bounds concurrent repository writes during import
const importConcurrency = 8

// Ingest writes workflows and runs into the local repository
type Ingest struct {
	repo  interfaces.Repository
	cache *QueryCache
	clock func() time.Time
}

// NewIngest creates a new Ingest instance. cache may be nil.
func NewIngest(repo interfaces.Repository, cache *QueryCache) *Ingest {
	return &Ingest{
		repo:  repo,
		cache: cache,
		clock: time.Now,
	}
}

// RegisterWorkflow stores a workflow definition
func (uc *Ingest) RegisterWorkflow(ctx context.Context, workflow *model.Workflow) error {
	if workflow == nil {
		return goerr.New("workflow is nil", goerr.T(model.ErrTagValidation))
	}
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = uc.clock().UTC()
	}
	if err := workflow.Validate(); err != nil {
		return err
	}

	if err := uc.repo.PutWorkflow(ctx, workflow); err != nil {
		return goerr.Wrap(err, "failed to save workflow", goerr.V("workflowID", workflow.ID))
	}
	metrics.IngestedRecordsTotal.WithLabelValues("workflow").Inc()
	uc.invalidate(workflow.ProjectID, workflow.ID)

	ctxlog.From(ctx).Info("workflow registered",
		"projectID", workflow.ProjectID,
		"workflowID", workflow.ID,
		"name", workflow.Name)
	return nil
}

// RecordRun stores a workflow run of a registered workflow. A run without
// ID is given a new one.
func (uc *Ingest) RecordRun(ctx context.Context, run *model.WorkflowRun) (*model.WorkflowRun, error) {
	if run == nil {
		return nil, goerr.New("workflow run is nil", goerr.T(model.ErrTagValidation))
	}
	if run.ID == "" {
		run.ID = types.NewWorkflowRunID()
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetWorkflow(ctx, run.ProjectID, run.WorkflowID); err != nil {
		return nil, goerr.Wrap(err, "failed to find workflow of run", goerr.V("runID", run.ID))
	}

	if err := uc.repo.PutWorkflowRun(ctx, run); err != nil {
		return nil, goerr.Wrap(err, "failed to save workflow run", goerr.V("runID", run.ID))
	}
	metrics.IngestedRecordsTotal.WithLabelValues("run").Inc()
	uc.invalidate(run.ProjectID, run.WorkflowID)

	return run, nil
}

// Import stores all workflows and then all runs of fixtures
func (uc *Ingest) Import(ctx context.Context, fixtures *model.Fixtures) error {
	if fixtures == nil {
		return goerr.New("fixtures are nil", goerr.T(model.ErrTagValidation))
	}
	if err := fixtures.Validate(); err != nil {
		return goerr.Wrap(err, "invalid fixtures")
	}

	for i := range fixtures.Workflows {
		if err := uc.RegisterWorkflow(ctx, &fixtures.Workflows[i]); err != nil {
			return err
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(importConcurrency)
	for i := range fixtures.Runs {
		run := &fixtures.Runs[i]
		eg.Go(func() error {
			if err := uc.repo.PutWorkflowRun(ctx, run); err != nil {
				return goerr.Wrap(err, "failed to save workflow run", goerr.V("runID", run.ID))
			}
			metrics.IngestedRecordsTotal.WithLabelValues("run").Inc()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i := range fixtures.Workflows {
		uc.invalidate(fixtures.Workflows[i].ProjectID, fixtures.Workflows[i].ID)
	}

	ctxlog.From(ctx).Info("fixtures imported",
		"workflows", len(fixtures.Workflows),
		"runs", len(fixtures.Runs))
	return nil
}

func (uc *Ingest) invalidate(projectID types.ProjectID, workflowID types.WorkflowID) {
	if uc.cache != nil {
		uc.cache.Invalidate(projectID, workflowID)
	}
}
