package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/usecase"
)

// Run shows the statistics page of a workflow in the terminal until the
// user quits or the page navigates back
func Run(ctx context.Context, loader *usecase.Loader, projectID types.ProjectID, workflowID types.WorkflowID, loc *time.Location) error {
	if err := projectID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid project ID", goerr.T(model.ErrTagValidation))
	}
	if err := workflowID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid workflow ID", goerr.T(model.ErrTagValidation))
	}

	agg := usecase.NewAggregator(loader, projectID, workflowID)
	m := NewModel(ctx, agg, time.Now(), loc)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return goerr.Wrap(err, "failed to run terminal UI",
			goerr.V("projectID", projectID),
			goerr.V("workflowID", workflowID))
	}
	return nil
}
