package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/cli/config"
	controller "github.com/secmon-lab/resilio/pkg/controller/http"
	"github.com/secmon-lab/resilio/pkg/usecase"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server
const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		storageCfg   config.Storage
		portalCfg    config.Portal
		displayCfg   config.Display
		fixturesPath string
	)

	flags := joinFlags(
		serverCfg.Flags(),
		storageCfg.Flags(),
		portalCfg.Flags(),
		displayCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "fixtures",
				Usage:       "YAML file of workflows and runs imported into the repository on startup",
				Category:    "Storage",
				Sources:     cli.EnvVars("RESILIO_FIXTURES"),
				Destination: &fixturesPath,
			},
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting resilio server",
				slog.Any("server", serverCfg),
				slog.Any("storage", storageCfg),
				slog.Any("portal", portalCfg),
				slog.Any("display", displayCfg),
			)

			if err := serverCfg.Validate(); err != nil {
				return err
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

			opts := []controller.Option{controller.WithLocation(loc)}

			// Runs written locally are invisible while reading from the portal
			if !portalCfg.IsConfigured() {
				ingest := usecase.NewIngest(repo, loader.Cache())
				opts = append(opts, controller.WithIngest(ingest))

				if fixturesPath != "" {
					fixtures, err := config.LoadFixturesFromFile(fixturesPath)
					if err != nil {
						return err
					}
					if err := ingest.Import(ctx, fixtures); err != nil {
						return err
					}
				}
			}

			sessions := usecase.NewSessionStore(loader, usecase.WithIdleTimeout(serverCfg.SessionTimeout))
			defer sessions.Shutdown()

			server, err := controller.NewServer(ctx, serverCfg.Addr, loader, sessions, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, ctx := errgroup.WithContext(ctx)

			eg.Go(func() error {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server error")
				}
				return nil
			})

			eg.Go(func() error {
				return sessions.RunJanitor(ctx, serverCfg.JanitorInterval)
			})

			eg.Go(func() error {
				<-ctx.Done()
				logger.Info("Shutting down...")

				// Ends the SSE streams, which would otherwise hold the server open
				sessions.Shutdown()

				// Graceful shutdown
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return err
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
