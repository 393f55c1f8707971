package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/resilio/pkg/cli/config"
	"github.com/secmon-lab/resilio/pkg/controller/tui"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdTUI(loggerCfg *config.Logger) *cli.Command {
	var (
		storageCfg config.Storage
		portalCfg  config.Portal
		displayCfg config.Display
		projectID  string
		workflowID string
	)

	flags := joinFlags(
		storageCfg.Flags(),
		portalCfg.Flags(),
		displayCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "project",
				Aliases:     []string{"p"},
				Usage:       "Project ID of the workflow",
				Required:    true,
				Sources:     cli.EnvVars("RESILIO_PROJECT"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "workflow",
				Aliases:     []string{"w"},
				Usage:       "Workflow ID",
				Required:    true,
				Destination: &workflowID,
			},
		},
	)

	return &cli.Command{
		Name:  "tui",
		Usage: "Show the statistics of a workflow in the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Log lines would break the full screen UI
			if logging.IsTerminal(loggerCfg.Writer()) {
				ctx = ctxlog.With(ctx, slog.New(slog.DiscardHandler))
			}

			loc, err := displayCfg.Location()
			if err != nil {
				return err
			}

			repo, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			source, err := portalCfg.Configure(ctx, repo)
			if err != nil {
				return err
			}

			loader, err := newLoader(source)
			if err != nil {
				return err
			}

			return tui.Run(ctx, loader, types.ProjectID(projectID), types.WorkflowID(workflowID), loc)
		},
	}
}
