package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// Version is overwritten at build time with -ldflags "-X".
var Version = "dev"

// Run parses args and executes the matching resilio command.
func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger

	setupLogger := func(ctx context.Context, c *cli.Command) (context.Context, error) {
		logger, err := loggerCfg.Configure()
		if err != nil {
			return nil, err
		}
		slog.SetDefault(logger)
		logger.Debug("resilio starting", "version", Version, "logger", loggerCfg)
		return ctxlog.With(ctx, logger), nil
	}

	app := &cli.Command{
		Name:                  "resilio",
		Usage:                 "Browse resiliency statistics of chaos workflow runs",
		Version:               Version,
		EnableShellCompletion: true,
		Flags:                 loggerCfg.Flags(),
		Before:                setupLogger,
		Commands: []*cli.Command{
			cmdServe(),
			cmdTUI(&loggerCfg),
			cmdImport(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return goerr.Wrap(err, "resilio command failed", goerr.V("args", args))
	}
	return nil
}
