package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	projectsCollection  = "projects"
	workflowsCollection = "workflows"
	runsCollection      = "runs"

	// Field names
	fieldFinishedAt = "FinishedAt"
)

// Firestore implements Repository interface with Firestore. Documents are
// laid out as projects/{projectID}/workflows/{workflowID}/runs/{runID}.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	// Create client with database ID
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Test connection by attempting to read from a collection
	// This will fail fast if the project ID is invalid or if there are permission issues
	_, err = client.Collection(projectsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		// For other errors (like NotFound for new projects), log but continue
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

func (f *Firestore) workflowDoc(projectID types.ProjectID, workflowID types.WorkflowID) *firestore.DocumentRef {
	return f.client.Collection(projectsCollection).Doc(projectID.String()).
		Collection(workflowsCollection).Doc(workflowID.String())
}

// PutWorkflow saves a workflow to Firestore
func (f *Firestore) PutWorkflow(ctx context.Context, workflow *model.Workflow) error {
	if workflow == nil {
		return goerr.New("workflow is nil")
	}
	if workflow.ID == "" || workflow.ProjectID == "" {
		return goerr.New("workflow ID and project ID are required",
			goerr.V("workflowID", workflow.ID),
			goerr.V("projectID", workflow.ProjectID))
	}

	_, err := f.workflowDoc(workflow.ProjectID, workflow.ID).Set(ctx, workflow)
	if err != nil {
		return goerr.Wrap(err, "failed to save workflow to firestore",
			goerr.V("workflowID", workflow.ID))
	}

	return nil
}

// GetWorkflow retrieves a workflow by ID
func (f *Firestore) GetWorkflow(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.Workflow, error) {
	if projectID == "" || workflowID == "" {
		return nil, goerr.New("workflow ID and project ID are required")
	}

	doc, err := f.workflowDoc(projectID, workflowID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrWorkflowNotFound, "failed to get workflow",
				goerr.V("projectID", projectID),
				goerr.V("workflowID", workflowID))
		}
		return nil, goerr.Wrap(err, "failed to get workflow from firestore")
	}

	var workflow model.Workflow
	if err := doc.DataTo(&workflow); err != nil {
		return nil, goerr.Wrap(err, "failed to decode workflow")
	}

	return &workflow, nil
}

// ListWorkflows lists workflows of a project ordered by name
func (f *Firestore) ListWorkflows(ctx context.Context, projectID types.ProjectID) ([]*model.Workflow, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is empty")
	}

	iter := f.client.Collection(projectsCollection).Doc(projectID.String()).
		Collection(workflowsCollection).Documents(ctx)
	defer iter.Stop()

	var workflows []*model.Workflow
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate workflows")
		}

		var workflow model.Workflow
		if err := doc.DataTo(&workflow); err != nil {
			return nil, goerr.Wrap(err, "failed to decode workflow", goerr.V("docID", doc.Ref.ID))
		}
		workflows = append(workflows, &workflow)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].Name < workflows[j].Name
	})

	return workflows, nil
}

// PutWorkflowRun saves a workflow run to Firestore
func (f *Firestore) PutWorkflowRun(ctx context.Context, run *model.WorkflowRun) error {
	if run == nil {
		return goerr.New("workflow run is nil")
	}
	if run.ID == "" || run.WorkflowID == "" || run.ProjectID == "" {
		return goerr.New("workflow run ID, workflow ID and project ID are required",
			goerr.V("runID", run.ID))
	}

	_, err := f.workflowDoc(run.ProjectID, run.WorkflowID).
		Collection(runsCollection).Doc(run.ID.String()).Set(ctx, run)
	if err != nil {
		return goerr.Wrap(err, "failed to save workflow run to firestore",
			goerr.V("runID", run.ID))
	}

	return nil
}

// ListWorkflowRuns lists all runs of a workflow, newest first
func (f *Firestore) ListWorkflowRuns(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) ([]*model.WorkflowRun, error) {
	if projectID == "" || workflowID == "" {
		return nil, goerr.New("workflow ID and project ID are required")
	}

	query := f.workflowDoc(projectID, workflowID).Collection(runsCollection).Query
	return f.queryRuns(ctx, query)
}

// ListWorkflowRunsFinishedBetween lists runs finished in [from, to), newest first
func (f *Firestore) ListWorkflowRunsFinishedBetween(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, from, to time.Time) ([]*model.WorkflowRun, error) {
	if projectID == "" || workflowID == "" {
		return nil, goerr.New("workflow ID and project ID are required")
	}

	query := f.workflowDoc(projectID, workflowID).Collection(runsCollection).
		Where(fieldFinishedAt, ">=", from).
		Where(fieldFinishedAt, "<", to)
	return f.queryRuns(ctx, query)
}

func (f *Firestore) queryRuns(ctx context.Context, query firestore.Query) ([]*model.WorkflowRun, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var runs []*model.WorkflowRun
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate workflow runs")
		}

		var run model.WorkflowRun
		if err := doc.DataTo(&run); err != nil {
			return nil, goerr.Wrap(err, "failed to decode workflow run", goerr.V("docID", doc.Ref.ID))
		}
		runs = append(runs, &run)
	}

	// Sort in memory to avoid requiring a composite index
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

var _ interfaces.Repository = (*Firestore)(nil) // Compile-time interface check
