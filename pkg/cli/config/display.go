package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Display holds configuration of how statistics are shown
type Display struct {
	Timezone string
}

// Flags returns CLI flags for Display configuration
func (d *Display) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "Time zone used to display dates (IANA name)",
			Category:    "Display",
			Value:       "UTC",
			Sources:     cli.EnvVars("RESILIO_TIMEZONE"),
			Destination: &d.Timezone,
		},
	}
}

// Location loads the configured time zone
func (d *Display) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid timezone", goerr.V("timezone", d.Timezone))
	}
	return loc, nil
}

// LogValue returns structured log value
func (d Display) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("timezone", d.Timezone),
	)
}
