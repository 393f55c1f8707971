package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/utils/apperr"
	"github.com/secmon-lab/resilio/pkg/utils/metrics"
)

// Page is the statistics page of one workflow. It is a reducer: Start and
// Handle mutate the page and return the commands to run next. A Page is
// not safe for concurrent use and must be driven from a single goroutine.
type Page struct {
	agg       *Aggregator
	navigator interfaces.Navigator

	years     model.YearFilter
	selection model.Selection

	// hasWorkflowRun is written once, by the first run-history result
	hasWorkflowRun bool
	runLatched     bool

	navigated bool
	started   bool
}

// NewPage creates a page for the workflow of agg. now fixes the selectable
// year window.
func NewPage(agg *Aggregator, navigator interfaces.Navigator, now time.Time) *Page {
	return &Page{
		agg:            agg,
		navigator:      navigator,
		years:          model.NewYearFilter(now),
		hasWorkflowRun: true,
	}
}

// Start issues the three initial loads. Cached results are applied before
// Start returns. Calling Start again returns nil.
func (p *Page) Start(ctx context.Context) []Command {
	if p.started {
		return nil
	}
	p.started = true

	var cmds []Command
	cmds = append(cmds, p.issue(ctx, p.agg.LoadWorkflow))
	cmds = append(cmds, p.issue(ctx, p.agg.LoadRunHistory))
	cmds = append(cmds, p.issue(ctx, func() (Event, Command) {
		return p.agg.LoadHeatmap(p.years.Current())
	}))
	return cmds
}

func (p *Page) issue(ctx context.Context, load func() (Event, Command)) Command {
	cached, cmd := load()
	if cached != nil {
		p.applyResult(ctx, cached)
	}
	return cmd
}

// Handle applies ev and returns the follow-up commands
func (p *Page) Handle(ctx context.Context, ev Event) []Command {
	if ev == nil {
		return nil
	}
	metrics.PageEventsTotal.WithLabelValues(ev.EventName()).Inc()

	switch ev := ev.(type) {
	case WorkflowLoaded, RunHistoryLoaded, HeatmapLoaded, FetchFailed:
		p.applyResult(ctx, ev)
		return nil

	case BinClicked:
		p.selection = p.selection.Click(ev.Bin)
		return nil

	case YearChanged:
		return p.changeYear(ctx, ev.Year)

	case TableOpened:
		p.selection = p.selection.OpenTable()
		return nil

	case TableClosed:
		p.selection = p.selection.CloseTable()
		return nil

	case NoRunsAcknowledged:
		return p.acknowledgeNoRuns()

	default:
		ctxlog.From(ctx).Warn("unknown page event", "event", ev.EventName())
		return nil
	}
}

func (p *Page) applyResult(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case HeatmapLoaded:
		if ev.Year != p.years.Current() {
			ctxlog.From(ctx).Debug("discard heatmap of unselected year",
				"workflowID", p.agg.WorkflowID(),
				"year", ev.Year,
				"current", p.years.Current())
			return
		}

	case RunHistoryLoaded:
		if !p.runLatched && ev.Summary != nil {
			p.runLatched = true
			p.hasWorkflowRun = ev.Summary.HasRun()
		}

	case FetchFailed:
		ctxlog.From(ctx).Warn("failed to load statistics",
			"query", ev.Query.String(),
			"year", ev.Year,
			"projectID", p.agg.ProjectID(),
			"workflowID", p.agg.WorkflowID(),
			"error", ev.Err)
	}

	p.agg.Apply(ev)
}

func (p *Page) changeYear(ctx context.Context, year int) []Command {
	changed, err := p.years.Select(year)
	if err != nil {
		ctxlog.From(ctx).Warn("ignore year change", "error", err)
		return nil
	}
	if !changed {
		return nil
	}

	p.selection = p.selection.Reset()
	return []Command{p.issue(ctx, func() (Event, Command) {
		return p.agg.LoadHeatmap(year)
	})}
}

func (p *Page) acknowledgeNoRuns() []Command {
	if !p.NoRunsModalOpen() || p.navigated {
		return nil
	}
	p.navigated = true

	navigator := p.navigator
	return []Command{func(ctx context.Context) Event {
		if navigator == nil {
			return nil
		}
		if err := navigator.Back(ctx); err != nil {
			apperr.Handle(ctx, err)
		}
		return nil
	}}
}

// HasWorkflowRun reports whether the workflow has been run. It is true
// until the first run-history result arrives and never changes afterwards.
func (p *Page) HasWorkflowRun() bool {
	return p.hasWorkflowRun
}

// NoRunsModalOpen reports whether the never-run notice is shown
func (p *Page) NoRunsModalOpen() bool {
	return !p.hasWorkflowRun
}

// Year returns the selected heatmap year
func (p *Page) Year() int {
	return p.years.Current()
}

// YearOptions returns the selectable years, newest first
func (p *Page) YearOptions() []int {
	return p.years.Options()
}

// Selection returns the bin selection state
func (p *Page) Selection() model.Selection {
	return p.selection
}

// ViewMode returns the current view mode. Until the workflow metadata has
// loaded the schedule is unknown and the heatmap view is reported.
func (p *Page) ViewMode() model.ViewMode {
	workflow := p.agg.Workflow()
	if workflow == nil {
		return model.HeatmapView
	}
	totalRuns := 0
	if history := p.agg.RunHistory(); history != nil {
		totalRuns = history.TotalRuns
	}
	return model.SelectView(workflow.CronSyntax, totalRuns)
}

// View returns a snapshot of the page
func (p *Page) View() model.PageView {
	view := model.PageView{
		ProjectID:       p.agg.ProjectID(),
		WorkflowID:      p.agg.WorkflowID(),
		ViewMode:        p.ViewMode(),
		Year:            p.years.Current(),
		YearOptions:     p.years.Options(),
		Thresholds:      slices.Clone(model.ValueThresholds),
		Selection:       p.selection.Kind(),
		SelectedDate:    p.selection.DateStamp(),
		SelectedScore:   p.selection.Score(),
		NoRunsModalOpen: p.NoRunsModalOpen(),
	}

	if workflow := p.agg.Workflow(); workflow != nil {
		view.WorkflowLoaded = true
		view.WorkflowName = workflow.Name
		view.CronSyntax = workflow.CronSyntax
	}

	if history := p.agg.RunHistory(); history != nil {
		view.RunHistoryLoaded = true
		view.TotalRuns = history.TotalRuns
		view.LatestRunID = history.LatestRunID()
	}

	year := p.years.Current()
	if bins, ok := p.agg.Heatmap(year); ok {
		view.Bins = slices.Clone(bins)
	} else {
		// A failed load without a value renders like a pending one
		view.HeatmapLoading = p.agg.Loading(QueryHeatmap, year) || p.agg.Err(QueryHeatmap, year) != nil
	}

	if view.ViewMode == model.HeatmapView {
		view.Panel = p.selection.Panel()
		view.DetailTableOpen = p.selection.TableOpen()
	}

	return view
}
