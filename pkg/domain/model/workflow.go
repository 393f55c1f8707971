package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/types"
)

// Workflow is the stored definition of a chaos workflow
type Workflow struct {
	ID         types.WorkflowID `json:"workflow_id" yaml:"id"`
	ProjectID  types.ProjectID  `json:"project_id" yaml:"project_id"`
	Name       string           `json:"workflow_name" yaml:"name"`
	CronSyntax string           `json:"cronSyntax" yaml:"cron_syntax"` // empty for a non-recurring workflow
	CreatedAt  time.Time        `json:"created_at" yaml:"created_at"`
}

// NewWorkflow creates a new Workflow instance
func NewWorkflow(projectID types.ProjectID, id types.WorkflowID, name, cronSyntax string) (*Workflow, error) {
	w := &Workflow{
		ID:         id,
		ProjectID:  projectID,
		Name:       name,
		CronSyntax: strings.TrimSpace(cronSyntax),
		CreatedAt:  time.Now(),
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate validates the workflow definition
func (w *Workflow) Validate() error {
	if err := w.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid workflow", goerr.T(ErrTagValidation))
	}
	if err := w.ProjectID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid workflow", goerr.T(ErrTagValidation))
	}
	if w.Name == "" {
		return goerr.New("workflow name is required",
			goerr.V("id", w.ID),
			goerr.T(ErrTagValidation))
	}
	if !isValidCronSyntax(w.CronSyntax) {
		return goerr.New("invalid cron syntax",
			goerr.V("id", w.ID),
			goerr.V("cron", w.CronSyntax),
			goerr.T(ErrTagValidation))
	}
	return nil
}

// Summary returns the read-only metadata shown on the statistics page
func (w *Workflow) Summary() *WorkflowSummary {
	return &WorkflowSummary{
		ID:         w.ID,
		ProjectID:  w.ProjectID,
		Name:       w.Name,
		CronSyntax: w.CronSyntax,
	}
}

// isValidCronSyntax accepts the empty sentinel, descriptors such as "@daily"
// and classic five or six field expressions
func isValidCronSyntax(cron string) bool {
	if cron == "" {
		return true
	}
	if strings.HasPrefix(cron, "@") {
		return len(cron) > 1
	}
	n := len(strings.Fields(cron))
	return n == 5 || n == 6
}

// WorkflowSummary is the workflow metadata consumed by the statistics page.
// It is replaced wholesale on every refetch.
type WorkflowSummary struct {
	ID         types.WorkflowID `json:"workflow_id"`
	ProjectID  types.ProjectID  `json:"project_id"`
	Name       string           `json:"workflow_name"`
	CronSyntax string           `json:"cronSyntax"`
}

// IsRecurring reports whether the workflow runs on a schedule
func (s *WorkflowSummary) IsRecurring() bool {
	return s.CronSyntax != ""
}
