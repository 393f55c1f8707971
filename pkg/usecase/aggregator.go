package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/utils/metrics"
	"golang.org/x/sync/singleflight"
)

// Loader fetches statistics from a StatsSource on behalf of every page. It
// is safe for concurrent use: identical in-flight queries are collapsed and
// every successful result is written to the shared QueryCache.
type Loader struct {
	source interfaces.StatsSource
	cache  *QueryCache
	group  singleflight.Group
}

// NewLoader creates a new Loader
func NewLoader(source interfaces.StatsSource, cache *QueryCache) *Loader {
	return &Loader{
		source: source,
		cache:  cache,
	}
}

// Cache returns the shared query cache
func (l *Loader) Cache() *QueryCache {
	return l.cache
}

// load runs fetch once per key no matter how many callers ask for it. The
// shared fetch is detached from the caller that started it; each caller
// stops waiting when its own ctx is done.
func load[T any](ctx context.Context, l *Loader, key QueryKey, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	fetchCtx := context.WithoutCancel(ctx)

	ch := l.group.DoChan(key.String(), func() (any, error) {
		started := time.Now()
		result, err := fetch(fetchCtx)
		metrics.QueryFetchDuration.WithLabelValues(key.Kind.String()).Observe(time.Since(started).Seconds())
		if err != nil {
			metrics.QueryFetchTotal.WithLabelValues(key.Kind.String(), "error").Inc()
			return nil, err
		}
		metrics.QueryFetchTotal.WithLabelValues(key.Kind.String(), "ok").Inc()
		l.cache.Put(key, result)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return zero, goerr.Wrap(ctx.Err(), "query abandoned", goerr.V("query", key.String()))
	case res := <-ch:
		if res.Err != nil {
			return zero, goerr.Wrap(res.Err, "failed to load query", goerr.V("query", key.String()))
		}
		return res.Val.(T), nil
	}
}

// Workflow fetches workflow metadata
func (l *Loader) Workflow(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.WorkflowSummary, error) {
	key := QueryKey{Kind: QueryWorkflow, ProjectID: projectID, WorkflowID: workflowID}
	return load(ctx, l, key, func(ctx context.Context) (*model.WorkflowSummary, error) {
		return l.source.GetWorkflow(ctx, projectID, workflowID)
	})
}

// RunHistory fetches the run-history summary
func (l *Loader) RunHistory(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.RunHistorySummary, error) {
	key := QueryKey{Kind: QueryRunHistory, ProjectID: projectID, WorkflowID: workflowID}
	return load(ctx, l, key, func(ctx context.Context) (*model.RunHistorySummary, error) {
		return l.source.GetRunHistory(ctx, projectID, workflowID)
	})
}

// Heatmap fetches the heatmap bins of one year
func (l *Loader) Heatmap(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, year int) ([]model.HeatmapBin, error) {
	key := QueryKey{Kind: QueryHeatmap, ProjectID: projectID, WorkflowID: workflowID, Year: year}
	return load(ctx, l, key, func(ctx context.Context) ([]model.HeatmapBin, error) {
		return l.source.GetHeatmap(ctx, projectID, workflowID, year)
	})
}

// cell is the state of one independently loading data set
type cell[T any] struct {
	value   T
	loaded  bool
	loading bool
	err     error
}

func (c *cell[T]) begin() {
	c.loading = true
}

// set stores v. A cached value leaves the load in flight.
func (c *cell[T]) set(v T, cached bool) {
	c.value = v
	c.loaded = true
	c.err = nil
	if !cached {
		c.loading = false
	}
}

// fail keeps the previous value
func (c *cell[T]) fail(err error) {
	c.loading = false
	c.err = err
}

// Aggregator holds the three data sets of one statistics page. It is not
// safe for concurrent use; it belongs to the page's event loop.
type Aggregator struct {
	loader     *Loader
	projectID  types.ProjectID
	workflowID types.WorkflowID

	workflow   cell[*model.WorkflowSummary]
	runHistory cell[*model.RunHistorySummary]
	heatmaps   map[int]*cell[[]model.HeatmapBin]
}

// NewAggregator creates an aggregator for one workflow
func NewAggregator(loader *Loader, projectID types.ProjectID, workflowID types.WorkflowID) *Aggregator {
	return &Aggregator{
		loader:     loader,
		projectID:  projectID,
		workflowID: workflowID,
		heatmaps:   make(map[int]*cell[[]model.HeatmapBin]),
	}
}

// ProjectID returns the project of the workflow
func (a *Aggregator) ProjectID() types.ProjectID {
	return a.projectID
}

// WorkflowID returns the workflow being aggregated
func (a *Aggregator) WorkflowID() types.WorkflowID {
	return a.workflowID
}

// LoadWorkflow starts a workflow metadata load. A cached result is returned
// as an event to apply right away; the command revalidates it over the network.
func (a *Aggregator) LoadWorkflow() (Event, Command) {
	a.workflow.begin()

	var cached Event
	key := QueryKey{Kind: QueryWorkflow, ProjectID: a.projectID, WorkflowID: a.workflowID}
	if v, ok := cacheGet[*model.WorkflowSummary](a.loader.cache, key); ok {
		cached = WorkflowLoaded{Summary: v, Cached: true}
	}

	loader, projectID, workflowID := a.loader, a.projectID, a.workflowID
	return cached, func(ctx context.Context) Event {
		v, err := loader.Workflow(ctx, projectID, workflowID)
		if err != nil {
			return FetchFailed{Query: QueryWorkflow, Err: err}
		}
		return WorkflowLoaded{Summary: v}
	}
}

// LoadRunHistory starts a run-history load, see LoadWorkflow
func (a *Aggregator) LoadRunHistory() (Event, Command) {
	a.runHistory.begin()

	var cached Event
	key := QueryKey{Kind: QueryRunHistory, ProjectID: a.projectID, WorkflowID: a.workflowID}
	if v, ok := cacheGet[*model.RunHistorySummary](a.loader.cache, key); ok {
		cached = RunHistoryLoaded{Summary: v, Cached: true}
	}

	loader, projectID, workflowID := a.loader, a.projectID, a.workflowID
	return cached, func(ctx context.Context) Event {
		v, err := loader.RunHistory(ctx, projectID, workflowID)
		if err != nil {
			return FetchFailed{Query: QueryRunHistory, Err: err}
		}
		return RunHistoryLoaded{Summary: v}
	}
}

// LoadHeatmap starts a heatmap load for year, see LoadWorkflow
func (a *Aggregator) LoadHeatmap(year int) (Event, Command) {
	a.heatmap(year).begin()

	var cached Event
	key := QueryKey{Kind: QueryHeatmap, ProjectID: a.projectID, WorkflowID: a.workflowID, Year: year}
	if v, ok := cacheGet[[]model.HeatmapBin](a.loader.cache, key); ok {
		cached = HeatmapLoaded{Year: year, Bins: v, Cached: true}
	}

	loader, projectID, workflowID := a.loader, a.projectID, a.workflowID
	return cached, func(ctx context.Context) Event {
		v, err := loader.Heatmap(ctx, projectID, workflowID, year)
		if err != nil {
			return FetchFailed{Query: QueryHeatmap, Year: year, Err: err}
		}
		return HeatmapLoaded{Year: year, Bins: v}
	}
}

func (a *Aggregator) heatmap(year int) *cell[[]model.HeatmapBin] {
	c, ok := a.heatmaps[year]
	if !ok {
		c = &cell[[]model.HeatmapBin]{}
		a.heatmaps[year] = c
	}
	return c
}

// Apply stores a fetch result. It reports false for events that are not
// fetch results.
func (a *Aggregator) Apply(ev Event) bool {
	switch ev := ev.(type) {
	case WorkflowLoaded:
		a.workflow.set(ev.Summary, ev.Cached)
	case RunHistoryLoaded:
		a.runHistory.set(ev.Summary, ev.Cached)
	case HeatmapLoaded:
		a.heatmap(ev.Year).set(ev.Bins, ev.Cached)
	case FetchFailed:
		switch ev.Query {
		case QueryWorkflow:
			a.workflow.fail(ev.Err)
		case QueryRunHistory:
			a.runHistory.fail(ev.Err)
		case QueryHeatmap:
			a.heatmap(ev.Year).fail(ev.Err)
		}
	default:
		return false
	}
	return true
}

// Workflow returns the workflow metadata, nil until loaded
func (a *Aggregator) Workflow() *model.WorkflowSummary {
	return a.workflow.value
}

// RunHistory returns the run-history summary, nil until loaded
func (a *Aggregator) RunHistory() *model.RunHistorySummary {
	return a.runHistory.value
}

// Heatmap returns the bins of year and whether they have been loaded
func (a *Aggregator) Heatmap(year int) ([]model.HeatmapBin, bool) {
	c, ok := a.heatmaps[year]
	if !ok || !c.loaded {
		return nil, false
	}
	return c.value, true
}

// Loading reports whether a load of the query is in flight. Year is only
// used for heatmap queries.
func (a *Aggregator) Loading(kind QueryKind, year int) bool {
	switch kind {
	case QueryWorkflow:
		return a.workflow.loading
	case QueryRunHistory:
		return a.runHistory.loading
	case QueryHeatmap:
		c, ok := a.heatmaps[year]
		return ok && c.loading
	default:
		return false
	}
}

// Err returns the error of the last failed load of the query, nil when the
// last load succeeded
func (a *Aggregator) Err(kind QueryKind, year int) error {
	switch kind {
	case QueryWorkflow:
		return a.workflow.err
	case QueryRunHistory:
		return a.runHistory.err
	case QueryHeatmap:
		if c, ok := a.heatmaps[year]; ok {
			return c.err
		}
	}
	return nil
}
