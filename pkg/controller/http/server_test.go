package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	controller "github.com/secmon-lab/resilio/pkg/controller/http"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/repository"
	"github.com/secmon-lab/resilio/pkg/usecase"
)

var testNow = time.Date(2024, time.November, 15, 9, 0, 0, 0, time.UTC)

const testProjectID = types.ProjectID("project-1")

type testServer struct {
	server   *controller.Server
	sessions *usecase.SessionStore
	ingest   *usecase.Ingest
}

func newTestServer(t *testing.T, opts ...controller.Option) *testServer {
	t.Helper()
	ctx := context.Background()

	repo := repository.NewMemory()
	cache, err := usecase.NewQueryCache(usecase.DefaultQueryCacheSize)
	gt.NoError(t, err).Required()

	loader := usecase.NewLoader(usecase.NewStats(repo), cache)
	sessions := usecase.NewSessionStore(loader, usecase.WithClock(func() time.Time { return testNow }))
	t.Cleanup(sessions.Shutdown)
	ingest := usecase.NewIngest(repo, cache)

	opts = append([]controller.Option{controller.WithIngest(ingest)}, opts...)
	server, err := controller.NewServer(ctx, ":0", loader, sessions, opts...)
	gt.NoError(t, err).Required()

	return &testServer{server: server, sessions: sessions, ingest: ingest}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) registerWorkflow(t *testing.T, id types.WorkflowID, name, cron string) {
	t.Helper()
	gt.NoError(t, s.ingest.RegisterWorkflow(context.Background(), &model.Workflow{
		ID:         id,
		ProjectID:  testProjectID,
		Name:       name,
		CronSyntax: cron,
	})).Required()
}

func (s *testServer) recordRun(t *testing.T, workflowID types.WorkflowID, finishedAt time.Time, score float64) {
	t.Helper()
	_, err := s.ingest.RecordRun(context.Background(), &model.WorkflowRun{
		WorkflowID:      workflowID,
		ProjectID:       testProjectID,
		Phase:           types.RunPhaseSucceeded,
		ResiliencyScore: score,
		StartedAt:       finishedAt.Add(-10 * time.Minute),
		FinishedAt:      finishedAt,
	})
	gt.NoError(t, err).Required()
}

func TestServerHealthCheck(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "")

	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Content-Type"), "application/json")

	var response map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	gt.Equal(t, response["status"], "healthy")
	gt.Equal(t, response["service"], "resilio")
}

func TestServerMetrics(t *testing.T) {
	s := newTestServer(t)
	s.registerWorkflow(t, "wf-metrics", "metrics", "")
	s.do(http.MethodGet, "/api/projects/project-1/workflows/wf-metrics", "")

	w := s.do(http.MethodGet, "/metrics", "")

	gt.Equal(t, w.Code, http.StatusOK)
	body := w.Body.String()
	gt.S(t, body).Contains("resilio_ingested_records_total")
	gt.S(t, body).Contains(`route="/api/projects/{projectID}/workflows/{workflowID}"`)
}

func TestServerStaticAssets(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/static/resilio.css", "")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Content-Type"), "text/css; charset=utf-8")

	w = s.do(http.MethodGet, "/static/missing.css", "")
	gt.Equal(t, w.Code, http.StatusNotFound)
}

func TestAPIStatistics(t *testing.T) {
	s := newTestServer(t)
	s.registerWorkflow(t, "wf-cron", "nightly pod delete", "0 0 * * *")
	s.recordRun(t, "wf-cron", time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC), 80)
	s.recordRun(t, "wf-cron", time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC), 60)

	t.Run("workflow", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/projects/project-1/workflows/wf-cron", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var summary model.WorkflowSummary
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary)).Required()
		gt.Equal(t, summary.Name, "nightly pod delete")
		gt.Equal(t, summary.CronSyntax, "0 0 * * *")
	})

	t.Run("unknown workflow is not found", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/projects/project-1/workflows/unknown", "")
		gt.Equal(t, w.Code, http.StatusNotFound)
	})

	t.Run("run history", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/projects/project-1/workflows/wf-cron/runs", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var history model.RunHistorySummary
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &history)).Required()
		gt.Equal(t, history.TotalRuns, 2)
		gt.A(t, history.RunIDs).Length(2)
	})

	t.Run("heatmap", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/projects/project-1/workflows/wf-cron/heatmap?year=2024", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var response struct {
			Year       int                `json:"year"`
			Thresholds []float64          `json:"thresholds"`
			Bins       []model.HeatmapBin `json:"bins"`
		}
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &response)).Required()
		gt.Equal(t, response.Year, 2024)
		gt.A(t, response.Thresholds).Length(9)
		gt.A(t, response.Bins).Length(366)

		day := response.Bins[time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC).YearDay()-1]
		gt.Equal(t, day.Value, 70.0)
		gt.Equal(t, day.WorkflowRunDetail.NoOfRuns, 2)
	})

	t.Run("invalid year is a bad request", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/projects/project-1/workflows/wf-cron/heatmap?year=last", "")
		gt.Equal(t, w.Code, http.StatusBadRequest)

		for _, year := range []string{"1677", "2263", "99999"} {
			w := s.do(http.MethodGet, "/api/projects/project-1/workflows/wf-cron/heatmap?year="+year, "")
			gt.Equal(t, w.Code, http.StatusBadRequest)
		}
	})
}

func TestAPIIngest(t *testing.T) {
	s := newTestServer(t)

	t.Run("register workflow", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/projects/project-1/workflows",
			`{"workflow_id":"wf-new","workflow_name":"cpu hog","cronSyntax":""}`)
		gt.Equal(t, w.Code, http.StatusCreated)

		w = s.do(http.MethodGet, "/api/projects/project-1/workflows/wf-new", "")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.S(t, w.Body.String()).Contains("cpu hog")
	})

	t.Run("invalid workflow is a bad request", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/projects/project-1/workflows",
			`{"workflow_id":"wf-bad","workflow_name":""}`)
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("unknown field is a bad request", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/projects/project-1/workflows",
			`{"workflow_id":"wf-x","workflow_name":"x","owner":"someone"}`)
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("record run", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/projects/project-1/workflows/wf-new/runs",
			`{"phase":"succeeded","resiliency_score":90,"started_at":"2024-05-01T10:00:00Z","finished_at":"2024-05-01T10:05:00Z"}`)
		gt.Equal(t, w.Code, http.StatusCreated)

		var run model.WorkflowRun
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &run)).Required()
		gt.NotEqual(t, run.ID, types.WorkflowRunID(""))
		gt.Equal(t, run.WorkflowID, types.WorkflowID("wf-new"))

		w = s.do(http.MethodGet, "/api/projects/project-1/workflows/wf-new/runs", "")
		gt.S(t, w.Body.String()).Contains(run.ID.String())
	})

	t.Run("run of unknown workflow is not found", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/projects/project-1/workflows/unknown/runs",
			`{"phase":"running","resiliency_score":0,"started_at":"2024-05-01T10:00:00Z"}`)
		gt.Equal(t, w.Code, http.StatusNotFound)
	})

	t.Run("completed run without finish time is a bad request", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/projects/project-1/workflows/wf-new/runs",
			`{"phase":"failed","resiliency_score":10,"started_at":"2024-05-01T10:00:00Z"}`)
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("CORS preflight", func(t *testing.T) {
		w := s.do(http.MethodOptions, "/api/projects/project-1/workflows/wf-new", "")
		gt.Equal(t, w.Code, http.StatusNoContent)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")
	})
}

func TestAPIIngestDisabled(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	cache, err := usecase.NewQueryCache(16)
	gt.NoError(t, err).Required()
	loader := usecase.NewLoader(usecase.NewStats(repo), cache)
	sessions := usecase.NewSessionStore(loader)
	t.Cleanup(sessions.Shutdown)

	server, err := controller.NewServer(ctx, ":0", loader, sessions)
	gt.NoError(t, err).Required()

	req := httptest.NewRequest(http.MethodPost, "/api/projects/project-1/workflows/wf-1/runs", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Equal(t, w.Code, http.StatusMethodNotAllowed)
}
