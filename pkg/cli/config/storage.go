package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Storage backends
const (
	StorageMemory    = "memory"
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"
)

// Storage holds configuration of the local workflow repository
type Storage struct {
	Backend           string
	SQLitePath        string
	FirestoreProject  string
	FirestoreDatabase string
}

// Flags returns CLI flags for Storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage",
			Usage:       "Repository backend (memory, sqlite, firestore). Inferred from the other storage flags if not set",
			Category:    "Storage",
			Sources:     cli.EnvVars("RESILIO_STORAGE"),
			Destination: &s.Backend,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "Path of the SQLite database file",
			Category:    "Storage",
			Sources:     cli.EnvVars("RESILIO_SQLITE_PATH"),
			Destination: &s.SQLitePath,
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Storage",
			Sources:     cli.EnvVars("RESILIO_FIRESTORE_PROJECT"),
			Destination: &s.FirestoreProject,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Storage",
			Value:       "(default)",
			Sources:     cli.EnvVars("RESILIO_FIRESTORE_DATABASE"),
			Destination: &s.FirestoreDatabase,
		},
	}
}

// ResolveBackend returns the backend to use
func (s *Storage) ResolveBackend() string {
	switch {
	case s.Backend != "":
		return s.Backend
	case s.FirestoreProject != "":
		return StorageFirestore
	case s.SQLitePath != "":
		return StorageSQLite
	default:
		return StorageMemory
	}
}

// Configure creates and returns the repository
func (s *Storage) Configure(ctx context.Context) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	switch backend := s.ResolveBackend(); backend {
	case StorageMemory:
		logger.Warn("Using memory database. The data will be removed when shutting down")
		return repository.NewMemory(), nil

	case StorageSQLite:
		if s.SQLitePath == "" {
			return nil, goerr.New("sqlite path is required for sqlite storage")
		}
		repo, err := repository.NewSQLite(ctx, s.SQLitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init sqlite", goerr.V("path", s.SQLitePath))
		}
		return repo, nil

	case StorageFirestore:
		if s.FirestoreProject == "" {
			return nil, goerr.New("firestore project is required for firestore storage")
		}
		repo, err := repository.NewFirestore(ctx, s.FirestoreProject, s.FirestoreDatabase)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to init firestore",
				goerr.V("project", s.FirestoreProject),
				goerr.V("database", s.FirestoreDatabase),
			)
		}
		return repo, nil

	default:
		return nil, goerr.New("unknown storage backend", goerr.V("backend", backend))
	}
}

// LogValue returns structured log value
func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", s.ResolveBackend()),
		slog.String("sqlite_path", s.SQLitePath),
		slog.String("firestore_project", s.FirestoreProject),
		slog.String("firestore_database", s.FirestoreDatabase),
	)
}
