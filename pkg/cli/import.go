package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/resilio/pkg/cli/config"
	"github.com/secmon-lab/resilio/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdImport() *cli.Command {
	var (
		storageCfg config.Storage
		path       string
	)

	flags := joinFlags(
		storageCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "YAML file of workflows and runs",
				Required:    true,
				Destination: &path,
			},
		},
	)

	return &cli.Command{
		Name:  "import",
		Usage: "Import workflows and runs from a YAML file into the repository",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctxlog.From(ctx).Info("Importing fixtures",
				slog.String("file", path),
				slog.Any("storage", storageCfg),
			)

			fixtures, err := config.LoadFixturesFromFile(path)
			if err != nil {
				return err
			}

			repo, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			return usecase.NewIngest(repo, nil).Import(ctx, fixtures)
		},
	}
}
