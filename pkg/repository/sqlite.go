package repository

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressly/goose/v3"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite implements Repository interface with an embedded SQLite database.
// Timestamps are stored as Unix nanoseconds in UTC.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path and applies pending migrations.
// Use ":memory:" for a private in-memory database.
func NewSQLite(ctx context.Context, path string) (interfaces.Repository, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	// Every connection to :memory: is a distinct database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ping sqlite database", goerr.V("path", path))
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	ctxlog.From(ctx).Info("SQLite repository initialized successfully", "path", path)

	return &SQLite{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return goerr.Wrap(err, "failed to set migration dialect")
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return goerr.Wrap(err, "failed to run migrations")
	}

	return nil
}

// PutWorkflow saves a workflow, replacing any existing one with the same ID
func (s *SQLite) PutWorkflow(ctx context.Context, workflow *model.Workflow) error {
	if workflow == nil {
		return goerr.New("workflow is nil")
	}
	if workflow.ID == "" || workflow.ProjectID == "" {
		return goerr.New("workflow ID and project ID are required",
			goerr.V("workflowID", workflow.ID),
			goerr.V("projectID", workflow.ProjectID))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workflows (project_id, workflow_id, name, cron_syntax, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (project_id, workflow_id) DO UPDATE SET
			name = excluded.name,
			cron_syntax = excluded.cron_syntax,
			created_at = excluded.created_at`,
		workflow.ProjectID.String(),
		workflow.ID.String(),
		workflow.Name,
		workflow.CronSyntax,
		toUnixNano(workflow.CreatedAt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save workflow", goerr.V("workflowID", workflow.ID))
	}

	return nil
}

// GetWorkflow retrieves a workflow by ID
func (s *SQLite) GetWorkflow(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.Workflow, error) {
	if projectID == "" || workflowID == "" {
		return nil, goerr.New("workflow ID and project ID are required")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT project_id, workflow_id, name, cron_syntax, created_at
		FROM workflows WHERE project_id = ? AND workflow_id = ?`,
		projectID.String(), workflowID.String())

	workflow, err := scanWorkflow(row)
	if err == sql.ErrNoRows {
		return nil, goerr.Wrap(model.ErrWorkflowNotFound, "failed to get workflow",
			goerr.V("projectID", projectID),
			goerr.V("workflowID", workflowID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get workflow", goerr.V("workflowID", workflowID))
	}

	return workflow, nil
}

// ListWorkflows lists workflows of a project ordered by name
func (s *SQLite) ListWorkflows(ctx context.Context, projectID types.ProjectID) ([]*model.Workflow, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is empty")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, workflow_id, name, cron_syntax, created_at
		FROM workflows WHERE project_id = ? ORDER BY name`,
		projectID.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list workflows", goerr.V("projectID", projectID))
	}
	defer rows.Close()

	var workflows []*model.Workflow
	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan workflow")
		}
		workflows = append(workflows, workflow)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate workflows")
	}

	return workflows, nil
}

// PutWorkflowRun saves a workflow run, replacing any existing one with the same ID
func (s *SQLite) PutWorkflowRun(ctx context.Context, run *model.WorkflowRun) error {
	if run == nil {
		return goerr.New("workflow run is nil")
	}
	if run.ID == "" || run.WorkflowID == "" || run.ProjectID == "" {
		return goerr.New("workflow run ID, workflow ID and project ID are required",
			goerr.V("runID", run.ID))
	}

	var finishedAt sql.NullInt64
	if !run.FinishedAt.IsZero() {
		finishedAt = sql.NullInt64{Int64: toUnixNano(run.FinishedAt), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workflow_runs (run_id, project_id, workflow_id, phase, resiliency_score, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id) DO UPDATE SET
			project_id = excluded.project_id,
			workflow_id = excluded.workflow_id,
			phase = excluded.phase,
			resiliency_score = excluded.resiliency_score,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at`,
		run.ID.String(),
		run.ProjectID.String(),
		run.WorkflowID.String(),
		run.Phase.String(),
		run.ResiliencyScore,
		toUnixNano(run.StartedAt),
		finishedAt,
	)
	if err != nil {
		return goerr.Wrap(err, "failed to save workflow run", goerr.V("runID", run.ID))
	}

	return nil
}

// ListWorkflowRuns lists all runs of a workflow, newest first
func (s *SQLite) ListWorkflowRuns(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) ([]*model.WorkflowRun, error) {
	if projectID == "" || workflowID == "" {
		return nil, goerr.New("workflow ID and project ID are required")
	}

	return s.queryRuns(ctx, `
		SELECT run_id, project_id, workflow_id, phase, resiliency_score, started_at, finished_at
		FROM workflow_runs WHERE project_id = ? AND workflow_id = ?
		ORDER BY started_at DESC`,
		projectID.String(), workflowID.String())
}

// ListWorkflowRunsFinishedBetween lists runs finished in [from, to), newest first
func (s *SQLite) ListWorkflowRunsFinishedBetween(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, from, to time.Time) ([]*model.WorkflowRun, error) {
	if projectID == "" || workflowID == "" {
		return nil, goerr.New("workflow ID and project ID are required")
	}

	return s.queryRuns(ctx, `
		SELECT run_id, project_id, workflow_id, phase, resiliency_score, started_at, finished_at
		FROM workflow_runs
		WHERE project_id = ? AND workflow_id = ? AND finished_at >= ? AND finished_at < ?
		ORDER BY started_at DESC`,
		projectID.String(), workflowID.String(), toUnixNano(from), toUnixNano(to))
}

func (s *SQLite) queryRuns(ctx context.Context, query string, args ...any) ([]*model.WorkflowRun, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query workflow runs")
	}
	defer rows.Close()

	var runs []*model.WorkflowRun
	for rows.Next() {
		var (
			run        model.WorkflowRun
			id         string
			projectID  string
			workflowID string
			phase      string
			startedAt  int64
			finishedAt sql.NullInt64
		)
		if err := rows.Scan(&id, &projectID, &workflowID, &phase, &run.ResiliencyScore, &startedAt, &finishedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan workflow run")
		}

		run.ID = types.WorkflowRunID(id)
		run.ProjectID = types.ProjectID(projectID)
		run.WorkflowID = types.WorkflowID(workflowID)
		run.Phase = types.RunPhase(phase)
		run.StartedAt = fromUnixNano(startedAt)
		if finishedAt.Valid {
			run.FinishedAt = fromUnixNano(finishedAt.Int64)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate workflow runs")
	}

	return runs, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*model.Workflow, error) {
	var (
		workflow   model.Workflow
		projectID  string
		workflowID string
		createdAt  int64
	)
	if err := row.Scan(&projectID, &workflowID, &workflow.Name, &workflow.CronSyntax, &createdAt); err != nil {
		return nil, err
	}

	workflow.ProjectID = types.ProjectID(projectID)
	workflow.ID = types.WorkflowID(workflowID)
	workflow.CreatedAt = fromUnixNano(createdAt)
	return &workflow, nil
}

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

var _ interfaces.Repository = (*SQLite)(nil) // Compile-time interface check
