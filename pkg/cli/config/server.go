package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr            string
	SessionTimeout  time.Duration
	JanitorInterval time.Duration
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("RESILIO_ADDR"),
			Destination: &s.Addr,
		},
		&cli.DurationFlag{
			Name:        "session-timeout",
			Usage:       "How long an unobserved page session is kept",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("RESILIO_SESSION_TIMEOUT"),
			Destination: &s.SessionTimeout,
		},
		&cli.DurationFlag{
			Name:        "janitor-interval",
			Usage:       "Interval of the idle session sweep",
			Value:       time.Minute,
			Sources:     cli.EnvVars("RESILIO_JANITOR_INTERVAL"),
			Destination: &s.JanitorInterval,
		},
	}
}

// Validate validates the server configuration
func (s *Server) Validate() error {
	if s.Addr == "" {
		return goerr.New("server address is required")
	}
	if s.SessionTimeout <= 0 {
		return goerr.New("session timeout must be positive", goerr.V("timeout", s.SessionTimeout))
	}
	if s.JanitorInterval <= 0 {
		return goerr.New("janitor interval must be positive", goerr.V("interval", s.JanitorInterval))
	}
	return nil
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Duration("session_timeout", s.SessionTimeout),
		slog.Duration("janitor_interval", s.JanitorInterval),
	)
}
