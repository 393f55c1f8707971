package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/resilio/pkg/cli/config"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/usecase"
)

const fixturesYAML = `
workflows:
  - id: wf-nightly
    project_id: project-1
    name: nightly pod delete
    cron_syntax: "0 0 * * *"
  - id: wf-once
    project_id: project-1
    name: one shot
runs:
  - id: run-1
    workflow_id: wf-nightly
    project_id: project-1
    phase: succeeded
    resiliency_score: 88.5
    started_at: 2024-03-10T10:00:00Z
    finished_at: 2024-03-10T10:20:00Z
  - id: run-2
    workflow_id: wf-once
    project_id: project-1
    phase: running
    resiliency_score: 0
    started_at: 2024-03-11T08:00:00Z
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestLoadFixturesFromFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		fixtures, err := config.LoadFixturesFromFile(writeFile(t, "fixtures.yaml", fixturesYAML))
		gt.NoError(t, err).Required()

		gt.A(t, fixtures.Workflows).Length(2)
		gt.A(t, fixtures.Runs).Length(2)
		gt.Equal(t, fixtures.Workflows[0].CronSyntax, "0 0 * * *")
		gt.Equal(t, fixtures.Runs[0].Phase, types.RunPhaseSucceeded)
		gt.Equal(t, fixtures.Runs[0].ResiliencyScore, 88.5)
		gt.True(t, fixtures.Runs[0].FinishedAt.Equal(time.Date(2024, time.March, 10, 10, 20, 0, 0, time.UTC)))
		gt.True(t, fixtures.Runs[1].FinishedAt.IsZero())
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := config.LoadFixturesFromFile("")
		gt.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadFixturesFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		gt.Error(t, err)
	})

	t.Run("broken YAML", func(t *testing.T) {
		_, err := config.LoadFixturesFromFile(writeFile(t, "broken.yaml", "workflows: [\n"))
		gt.Error(t, err)
	})

	t.Run("run of unknown workflow", func(t *testing.T) {
		_, err := config.LoadFixturesFromFile(writeFile(t, "orphan.yaml", `
workflows: []
runs:
  - id: run-1
    workflow_id: wf-missing
    project_id: project-1
    phase: running
    started_at: 2024-03-11T08:00:00Z
`))
		gt.Error(t, err)
	})
}

func TestLoggerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := config.Logger{Level: "info", Format: "auto", Output: "stdout"}
		logger, err := cfg.Configure()
		gt.NoError(t, err)
		gt.V(t, logger).NotNil()
	})

	t.Run("discard output", func(t *testing.T) {
		cfg := config.Logger{Level: "debug", Format: "json", Output: "discard"}
		logger, err := cfg.Configure()
		gt.NoError(t, err).Required()
		logger.Info("not written anywhere")
	})

	t.Run("invalid values", func(t *testing.T) {
		gt.Error(t, (&config.Logger{Level: "verbose"}).Validate())
		gt.Error(t, (&config.Logger{Format: "xml"}).Validate())
		gt.Error(t, (&config.Logger{Output: "syslog"}).Validate())
	})
}

func TestServerConfigValidate(t *testing.T) {
	valid := config.Server{Addr: "localhost:8080", SessionTimeout: time.Minute, JanitorInterval: time.Second}
	gt.NoError(t, valid.Validate())

	noAddr := valid
	noAddr.Addr = ""
	gt.Error(t, noAddr.Validate())

	noTimeout := valid
	noTimeout.SessionTimeout = 0
	gt.Error(t, noTimeout.Validate())
}

func TestDisplayLocation(t *testing.T) {
	loc, err := (&config.Display{}).Location()
	gt.NoError(t, err)
	gt.Equal(t, loc, time.UTC)

	_, err = (&config.Display{Timezone: "Mars/Olympus_Mons"}).Location()
	gt.Error(t, err)
}

func TestStorageConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("backend inference", func(t *testing.T) {
		gt.Equal(t, (&config.Storage{}).ResolveBackend(), config.StorageMemory)
		gt.Equal(t, (&config.Storage{SQLitePath: "resilio.db"}).ResolveBackend(), config.StorageSQLite)
		gt.Equal(t, (&config.Storage{FirestoreProject: "p", SQLitePath: "x"}).ResolveBackend(), config.StorageFirestore)
		gt.Equal(t, (&config.Storage{Backend: config.StorageMemory, SQLitePath: "x"}).ResolveBackend(), config.StorageMemory)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.Storage{SQLitePath: filepath.Join(t.TempDir(), "resilio.db")}
		repo, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("sqlite without path", func(t *testing.T) {
		_, err := (&config.Storage{Backend: config.StorageSQLite}).Configure(ctx)
		gt.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := (&config.Storage{Backend: "postgres"}).Configure(ctx)
		gt.Error(t, err)
	})
}

func TestPortalConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("local statistics without endpoint", func(t *testing.T) {
		repo, err := (&config.Storage{}).Configure(ctx)
		gt.NoError(t, err).Required()

		source, err := (&config.Portal{}).Configure(ctx, repo)
		gt.NoError(t, err).Required()
		_, ok := source.(*usecase.Stats)
		gt.True(t, ok)
	})

	t.Run("portal client with endpoint", func(t *testing.T) {
		cfg := config.Portal{Endpoint: "http://localhost:9002/query", Timeout: time.Second}
		source, err := cfg.Configure(ctx, nil)
		gt.NoError(t, err).Required()
		_, ok := source.(*usecase.Stats)
		gt.False(t, ok)
	})
}
