package config

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/service/portal"
	"github.com/secmon-lab/resilio/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Portal holds configuration of the remote chaos portal used as the
// statistics source
type Portal struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// Flags returns CLI flags for Portal configuration
func (p *Portal) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "portal-endpoint",
			Usage:       "GraphQL endpoint of the chaos portal. Statistics are computed from the local repository if not set",
			Category:    "Portal",
			Sources:     cli.EnvVars("RESILIO_PORTAL_ENDPOINT"),
			Destination: &p.Endpoint,
		},
		&cli.StringFlag{
			Name:        "portal-token",
			Usage:       "Bearer token for the chaos portal",
			Category:    "Portal",
			Sources:     cli.EnvVars("RESILIO_PORTAL_TOKEN"),
			Destination: &p.Token,
		},
		&cli.DurationFlag{
			Name:        "portal-timeout",
			Usage:       "Request timeout for the chaos portal",
			Category:    "Portal",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("RESILIO_PORTAL_TIMEOUT"),
			Destination: &p.Timeout,
		},
	}
}

// IsConfigured checks if a portal endpoint is set
func (p *Portal) IsConfigured() bool {
	return p.Endpoint != ""
}

// Configure returns the statistics source: the portal when configured,
// otherwise statistics computed from repo
func (p *Portal) Configure(ctx context.Context, repo interfaces.Repository) (interfaces.StatsSource, error) {
	if !p.IsConfigured() {
		ctxlog.From(ctx).Info("Computing statistics from the local repository")
		return usecase.NewStats(repo), nil
	}

	client, err := portal.New(p.Endpoint,
		portal.WithToken(p.Token),
		portal.WithHTTPClient(&http.Client{Timeout: p.Timeout}),
	)
	if err != nil {
		return nil, err
	}
	ctxlog.From(ctx).Info("Reading statistics from the chaos portal", "endpoint", p.Endpoint)
	return client, nil
}

// LogValue returns structured log value
func (p Portal) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", p.Endpoint),
		slog.Bool("has_token", p.Token != ""),
		slog.Duration("timeout", p.Timeout),
	)
}
