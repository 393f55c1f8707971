package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/usecase"
)

func TestAggregator_FailureKeepsPreviousValue(t *testing.T) {
	agg := usecase.NewAggregator(newTestLoader(t, newSource(sourceFixture{})), testProjectID, testWorkflowID)

	summary := &model.WorkflowSummary{ID: testWorkflowID, ProjectID: testProjectID, Name: "first"}
	gt.True(t, agg.Apply(usecase.WorkflowLoaded{Summary: summary}))
	gt.NoError(t, agg.Err(usecase.QueryWorkflow, 0))

	failure := goerr.New("timeout")
	gt.True(t, agg.Apply(usecase.FetchFailed{Query: usecase.QueryWorkflow, Err: failure}))
	gt.Equal(t, agg.Workflow().Name, "first")
	gt.Error(t, agg.Err(usecase.QueryWorkflow, 0))
	gt.False(t, agg.Loading(usecase.QueryWorkflow, 0))

	// A later success clears the error
	gt.True(t, agg.Apply(usecase.WorkflowLoaded{Summary: &model.WorkflowSummary{Name: "second"}}))
	gt.Equal(t, agg.Workflow().Name, "second")
	gt.NoError(t, agg.Err(usecase.QueryWorkflow, 0))
}

func TestAggregator_HeatmapCellsArePerYear(t *testing.T) {
	agg := usecase.NewAggregator(newTestLoader(t, newSource(sourceFixture{})), testProjectID, testWorkflowID)

	agg.Apply(usecase.HeatmapLoaded{Year: 2023, Bins: testBins(2023)})
	agg.Apply(usecase.FetchFailed{Query: usecase.QueryHeatmap, Year: 2024, Err: goerr.New("boom")})

	bins, ok := agg.Heatmap(2023)
	gt.True(t, ok)
	gt.Equal(t, bins, testBins(2023))

	_, ok = agg.Heatmap(2024)
	gt.False(t, ok)
	gt.Error(t, agg.Err(usecase.QueryHeatmap, 2024))
	gt.NoError(t, agg.Err(usecase.QueryHeatmap, 2023))
}

func TestAggregator_IgnoresInteractionEvents(t *testing.T) {
	agg := usecase.NewAggregator(newTestLoader(t, newSource(sourceFixture{})), testProjectID, testWorkflowID)
	gt.False(t, agg.Apply(usecase.BinClicked{}))
	gt.False(t, agg.Apply(usecase.YearChanged{Year: 2024}))
}

func TestAggregator_LoadMarksLoadingUntilResult(t *testing.T) {
	ctx := context.Background()
	agg := usecase.NewAggregator(newTestLoader(t, newSource(sourceFixture{totalRuns: 2})), testProjectID, testWorkflowID)

	cached, cmd := agg.LoadRunHistory()
	gt.V(t, cached).Nil()
	gt.True(t, agg.Loading(usecase.QueryRunHistory, 0))

	ev := cmd(ctx)
	loaded, ok := ev.(usecase.RunHistoryLoaded)
	gt.True(t, ok)
	gt.Equal(t, loaded.Summary.TotalRuns, 2)

	agg.Apply(ev)
	gt.False(t, agg.Loading(usecase.QueryRunHistory, 0))
	gt.Equal(t, agg.RunHistory().TotalRuns, 2)

	// The next load is answered from the cache first and keeps loading
	// until the network result arrives
	cached, cmd = agg.LoadRunHistory()
	gt.V(t, cached).NotNil()
	gt.True(t, agg.Apply(cached))
	gt.True(t, agg.Loading(usecase.QueryRunHistory, 0))
	gt.Equal(t, agg.RunHistory().TotalRuns, 2)

	agg.Apply(cmd(ctx))
	gt.False(t, agg.Loading(usecase.QueryRunHistory, 0))
}

func TestAggregator_CachedHeatmapRevalidates(t *testing.T) {
	ctx := context.Background()
	loader := newTestLoader(t, newSource(sourceFixture{}))
	_, err := loader.Heatmap(ctx, testProjectID, testWorkflowID, 2024)
	gt.NoError(t, err).Required()

	agg := usecase.NewAggregator(loader, testProjectID, testWorkflowID)
	cached, cmd := agg.LoadHeatmap(2024)
	loaded, ok := cached.(usecase.HeatmapLoaded)
	gt.True(t, ok)
	gt.True(t, loaded.Cached)

	agg.Apply(cached)
	_, ok = agg.Heatmap(2024)
	gt.True(t, ok)
	gt.True(t, agg.Loading(usecase.QueryHeatmap, 2024))

	fresh, ok := cmd(ctx).(usecase.HeatmapLoaded)
	gt.True(t, ok)
	gt.False(t, fresh.Cached)
	agg.Apply(fresh)
	gt.False(t, agg.Loading(usecase.QueryHeatmap, 2024))
}

func TestAggregator_FailedCommandReportsQuery(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{})
	source.GetHeatmapFunc = func(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, year int) ([]model.HeatmapBin, error) {
		return nil, goerr.New("unavailable")
	}
	agg := usecase.NewAggregator(newTestLoader(t, source), testProjectID, testWorkflowID)

	_, cmd := agg.LoadHeatmap(2022)
	failed, ok := cmd(ctx).(usecase.FetchFailed)
	gt.True(t, ok)
	gt.Equal(t, failed.Query, usecase.QueryHeatmap)
	gt.Equal(t, failed.Year, 2022)
	gt.Error(t, failed.Err)
}

func TestLoader_CollapsesConcurrentLoads(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	release := make(chan struct{})

	source := newSource(sourceFixture{})
	source.GetWorkflowFunc = func(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.WorkflowSummary, error) {
		calls.Add(1)
		<-release
		return &model.WorkflowSummary{ID: workflowID, ProjectID: projectID, Name: "shared"}, nil
	}
	loader := newTestLoader(t, source)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*model.WorkflowSummary, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summary, err := loader.Workflow(ctx, testProjectID, testWorkflowID)
			gt.NoError(t, err)
			results[i] = summary
		}(i)
	}

	// Let every goroutine join the in-flight load before releasing it
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	gt.Equal(t, calls.Load(), int32(1))
	for _, r := range results {
		gt.Equal(t, r.Name, "shared")
	}
	gt.Equal(t, loader.Cache().Len(), 1)
}

func TestLoader_SharedLoadOutlivesCancelledCaller(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	source := newSource(sourceFixture{})
	source.GetWorkflowFunc = func(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.WorkflowSummary, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &model.WorkflowSummary{ID: workflowID, ProjectID: projectID, Name: "shared"}, nil
	}
	loader := newTestLoader(t, source)

	requestCtx, cancel := context.WithCancel(context.Background())
	requestErr := make(chan error, 1)
	go func() {
		_, err := loader.Workflow(requestCtx, testProjectID, testWorkflowID)
		requestErr <- err
	}()
	<-started

	type result struct {
		summary *model.WorkflowSummary
		err     error
	}
	sessionResult := make(chan result, 1)
	go func() {
		summary, err := loader.Workflow(context.Background(), testProjectID, testWorkflowID)
		sessionResult <- result{summary, err}
	}()

	// Let the second caller join the in-flight load
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-requestErr:
		gt.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting for the shared load")
	}

	close(release)
	select {
	case r := <-sessionResult:
		gt.NoError(t, r.err)
		gt.Equal(t, r.summary.Name, "shared")
	case <-time.After(time.Second):
		t.Fatal("shared load did not complete")
	}
	gt.Equal(t, calls.Load(), int32(1))
	gt.Equal(t, loader.Cache().Len(), 1)
}

func TestLoader_DoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	source := &mocks.StatsSourceMock{
		GetRunHistoryFunc: func(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.RunHistorySummary, error) {
			return nil, goerr.New("unavailable")
		},
	}
	loader := newTestLoader(t, source)

	_, err := loader.RunHistory(ctx, testProjectID, testWorkflowID)
	gt.Error(t, err)
	gt.Equal(t, loader.Cache().Len(), 0)
}
