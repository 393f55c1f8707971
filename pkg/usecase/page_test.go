package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/usecase"
)

var testNow = time.Date(2024, 11, 15, 9, 30, 0, 0, time.UTC)

const (
	testProjectID  = types.ProjectID("project-1")
	testWorkflowID = types.WorkflowID("workflow-1")
)

// drain runs commands synchronously and feeds their events back to the page
func drain(ctx context.Context, page *usecase.Page, cmds []usecase.Command) {
	queue := cmds
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		if ev := cmd(ctx); ev != nil {
			queue = append(queue, page.Handle(ctx, ev)...)
		}
	}
}

func testBins(year int) []model.HeatmapBin {
	day := time.Date(year, time.March, 1, 21, 30, 0, 0, time.UTC)
	return []model.HeatmapBin{
		{Value: 72, WorkflowRunDetail: model.WorkflowRunDetail{NoOfRuns: 3, DateStamp: day.Unix()}},
		{Value: 0, WorkflowRunDetail: model.WorkflowRunDetail{NoOfRuns: 0, DateStamp: day.AddDate(0, 0, 1).Unix()}},
	}
}

type sourceFixture struct {
	cron      string
	totalRuns int
}

func newSource(f sourceFixture) *mocks.StatsSourceMock {
	return &mocks.StatsSourceMock{
		GetWorkflowFunc: func(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.WorkflowSummary, error) {
			return &model.WorkflowSummary{
				ID:         workflowID,
				ProjectID:  projectID,
				Name:       "podtato-head",
				CronSyntax: f.cron,
			}, nil
		},
		GetRunHistoryFunc: func(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.RunHistorySummary, error) {
			summary := &model.RunHistorySummary{TotalRuns: f.totalRuns}
			for i := 0; i < f.totalRuns; i++ {
				summary.RunIDs = append(summary.RunIDs, types.NewWorkflowRunID())
			}
			return summary, nil
		},
		GetHeatmapFunc: func(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, year int) ([]model.HeatmapBin, error) {
			return testBins(year), nil
		},
	}
}

func newTestLoader(t *testing.T, source *mocks.StatsSourceMock) *usecase.Loader {
	cache, err := usecase.NewQueryCache(64)
	gt.NoError(t, err).Required()
	return usecase.NewLoader(source, cache)
}

func newTestPage(loader *usecase.Loader, navigator *mocks.NavigatorMock) *usecase.Page {
	agg := usecase.NewAggregator(loader, testProjectID, testWorkflowID)
	return usecase.NewPage(agg, navigator, testNow)
}

func TestPage_RecurringWorkflowClickSequence(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{cron: "*/5 * * * *", totalRuns: 12})
	page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})

	drain(ctx, page, page.Start(ctx))

	view := page.View()
	gt.Equal(t, view.ViewMode, model.HeatmapView)
	gt.True(t, view.WorkflowLoaded)
	gt.Equal(t, view.WorkflowName, "podtato-head")
	gt.True(t, view.RunHistoryLoaded)
	gt.Equal(t, view.TotalRuns, 12)
	gt.NotEqual(t, view.LatestRunID, types.WorkflowRunID(""))
	gt.False(t, view.HeatmapLoading)
	gt.A(t, view.Bins).Length(2)
	gt.Equal(t, view.Year, 2024)
	gt.Equal(t, view.YearOptions, []int{2024, 2023, 2022})
	gt.Equal(t, view.Thresholds, model.ValueThresholds)
	gt.False(t, view.NoRunsModalOpen)
	gt.Equal(t, view.Panel, model.PanelNone)

	withData := view.Bins[0]
	empty := view.Bins[1]

	page.Handle(ctx, usecase.BinClicked{Bin: &withData})
	view = page.View()
	gt.Equal(t, view.Selection, model.SelectionHasData)
	gt.Equal(t, view.Panel, model.PanelStackedBar)
	gt.Equal(t, view.SelectedDate, withData.WorkflowRunDetail.DateStamp)
	gt.Equal(t, view.SelectedScore, 72.0)
	gt.False(t, view.DetailTableOpen)

	page.Handle(ctx, usecase.TableOpened{})
	gt.True(t, page.View().DetailTableOpen)

	page.Handle(ctx, usecase.BinClicked{Bin: &empty})
	view = page.View()
	gt.Equal(t, view.Selection, model.SelectionEmpty)
	gt.Equal(t, view.Panel, model.PanelNoData)
	gt.False(t, view.DetailTableOpen)

	page.Handle(ctx, usecase.BinClicked{Bin: nil})
	view = page.View()
	gt.Equal(t, view.Selection, model.SelectionNone)
	gt.Equal(t, view.Panel, model.PanelNone)
	gt.Equal(t, view.SelectedDate, int64(0))
}

func TestPage_OneShotWorkflowShowsTable(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{cron: "", totalRuns: 1})
	page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})

	drain(ctx, page, page.Start(ctx))

	view := page.View()
	gt.Equal(t, view.ViewMode, model.TableView)
	gt.False(t, view.NoRunsModalOpen)

	// Selection is tracked but no panel is shown outside the heatmap view
	bin := view.Bins[0]
	page.Handle(ctx, usecase.BinClicked{Bin: &bin})
	page.Handle(ctx, usecase.TableOpened{})
	view = page.View()
	gt.Equal(t, view.Panel, model.PanelNone)
	gt.False(t, view.DetailTableOpen)
}

func TestPage_ZeroRunWorkflowNavigatesBackOnce(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{cron: "", totalRuns: 0})
	navigator := &mocks.NavigatorMock{
		BackFunc: func(ctx context.Context) error { return nil },
	}
	page := newTestPage(newTestLoader(t, source), navigator)

	drain(ctx, page, page.Start(ctx))
	gt.True(t, page.View().NoRunsModalOpen)
	gt.False(t, page.HasWorkflowRun())

	drain(ctx, page, page.Handle(ctx, usecase.NoRunsAcknowledged{}))
	drain(ctx, page, page.Handle(ctx, usecase.NoRunsAcknowledged{}))

	gt.A(t, navigator.BackCalls()).Length(1)
}

func TestPage_AcknowledgeWithoutModalIsIgnored(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{cron: "@daily", totalRuns: 4})
	navigator := &mocks.NavigatorMock{
		BackFunc: func(ctx context.Context) error { return nil },
	}
	page := newTestPage(newTestLoader(t, source), navigator)

	// Before the run history arrives the modal is closed
	cmds := page.Start(ctx)
	gt.A(t, page.Handle(ctx, usecase.NoRunsAcknowledged{})).Length(0)

	drain(ctx, page, cmds)
	gt.A(t, page.Handle(ctx, usecase.NoRunsAcknowledged{})).Length(0)
	gt.A(t, navigator.BackCalls()).Length(0)
}

func TestPage_NavigatorErrorIsNotRetried(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{totalRuns: 0})
	navigator := &mocks.NavigatorMock{
		BackFunc: func(ctx context.Context) error { return goerr.New("navigation failed") },
	}
	page := newTestPage(newTestLoader(t, source), navigator)

	drain(ctx, page, page.Start(ctx))
	drain(ctx, page, page.Handle(ctx, usecase.NoRunsAcknowledged{}))
	drain(ctx, page, page.Handle(ctx, usecase.NoRunsAcknowledged{}))
	gt.A(t, navigator.BackCalls()).Length(1)
}

func TestPage_HasWorkflowRunIsLatchedOnce(t *testing.T) {
	ctx := context.Background()
	page := newTestPage(newTestLoader(t, newSource(sourceFixture{})), &mocks.NavigatorMock{})

	// Safe default before the first result
	gt.True(t, page.HasWorkflowRun())
	gt.False(t, page.View().NoRunsModalOpen)

	page.Handle(ctx, usecase.RunHistoryLoaded{Summary: &model.RunHistorySummary{TotalRuns: 0}})
	gt.False(t, page.HasWorkflowRun())

	page.Handle(ctx, usecase.RunHistoryLoaded{Summary: &model.RunHistorySummary{
		TotalRuns: 5,
		RunIDs:    []types.WorkflowRunID{"r5", "r4", "r3", "r2", "r1"},
	}})
	gt.False(t, page.HasWorkflowRun())
	gt.True(t, page.View().NoRunsModalOpen)

	// The summary itself is still replaced
	gt.Equal(t, page.View().TotalRuns, 5)
	gt.Equal(t, page.View().LatestRunID, types.WorkflowRunID("r5"))
}

func TestPage_YearChange(t *testing.T) {
	t.Run("resets selection and fetches the new year once", func(t *testing.T) {
		ctx := context.Background()
		source := newSource(sourceFixture{cron: "*/5 * * * *", totalRuns: 3})
		page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})
		drain(ctx, page, page.Start(ctx))
		gt.A(t, source.GetHeatmapCalls()).Length(1)

		bin := page.View().Bins[0]
		page.Handle(ctx, usecase.BinClicked{Bin: &bin})
		page.Handle(ctx, usecase.TableOpened{})

		cmds := page.Handle(ctx, usecase.YearChanged{Year: 2023})
		gt.A(t, cmds).Length(1)

		view := page.View()
		gt.Equal(t, view.Year, 2023)
		gt.Equal(t, view.Selection, model.SelectionNone)
		gt.False(t, view.DetailTableOpen)
		gt.True(t, view.HeatmapLoading)
		gt.A(t, view.Bins).Length(0)

		drain(ctx, page, cmds)
		calls := source.GetHeatmapCalls()
		gt.A(t, calls).Length(2)
		gt.Equal(t, calls[1].Year, 2023)

		view = page.View()
		gt.False(t, view.HeatmapLoading)
		gt.Equal(t, view.Bins, testBins(2023))
	})

	t.Run("selecting the current year is a no-op", func(t *testing.T) {
		ctx := context.Background()
		source := newSource(sourceFixture{cron: "*/5 * * * *", totalRuns: 3})
		page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})
		drain(ctx, page, page.Start(ctx))

		bin := page.View().Bins[0]
		page.Handle(ctx, usecase.BinClicked{Bin: &bin})

		cmds := page.Handle(ctx, usecase.YearChanged{Year: 2024})
		gt.A(t, cmds).Length(0)
		gt.Equal(t, page.View().Selection, model.SelectionHasData)
		gt.A(t, source.GetHeatmapCalls()).Length(1)
	})

	t.Run("years outside the window are rejected", func(t *testing.T) {
		ctx := context.Background()
		source := newSource(sourceFixture{cron: "*/5 * * * *", totalRuns: 3})
		page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})
		drain(ctx, page, page.Start(ctx))

		for _, year := range []int{2021, 2025} {
			gt.A(t, page.Handle(ctx, usecase.YearChanged{Year: year})).Length(0)
		}
		gt.Equal(t, page.Year(), 2024)
		gt.A(t, source.GetHeatmapCalls()).Length(1)
	})

	t.Run("returning to a visited year uses the cached bins", func(t *testing.T) {
		ctx := context.Background()
		source := newSource(sourceFixture{cron: "*/5 * * * *", totalRuns: 3})
		page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})
		drain(ctx, page, page.Start(ctx))
		drain(ctx, page, page.Handle(ctx, usecase.YearChanged{Year: 2022}))

		cmds := page.Handle(ctx, usecase.YearChanged{Year: 2024})
		view := page.View()
		gt.False(t, view.HeatmapLoading)
		gt.Equal(t, view.Bins, testBins(2024))

		// Revalidated over the network all the same
		gt.A(t, cmds).Length(1)
		drain(ctx, page, cmds)
		gt.A(t, source.GetHeatmapCalls()).Length(3)
	})
}

func TestPage_StaleYearHeatmapIsDiscarded(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{cron: "*/5 * * * *", totalRuns: 3})
	page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})

	startCmds := page.Start(ctx)
	gt.A(t, startCmds).Length(3)
	yearCmds := page.Handle(ctx, usecase.YearChanged{Year: 2023})

	drain(ctx, page, yearCmds)
	drain(ctx, page, startCmds)

	view := page.View()
	gt.Equal(t, view.Year, 2023)
	gt.Equal(t, view.Bins, testBins(2023))
}

func TestPage_LoadingState(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{cron: "", totalRuns: 1})
	page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})

	cmds := page.Start(ctx)
	view := page.View()
	gt.False(t, view.WorkflowLoaded)
	gt.False(t, view.RunHistoryLoaded)
	gt.True(t, view.HeatmapLoading)
	gt.False(t, view.NoRunsModalOpen)
	// Unknown schedule is not treated as non-recurring
	gt.Equal(t, view.ViewMode, model.HeatmapView)

	drain(ctx, page, cmds)
	view = page.View()
	gt.False(t, view.HeatmapLoading)
	gt.Equal(t, view.ViewMode, model.TableView)
}

func TestPage_FetchFailureKeepsLoadingView(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{cron: "*/5 * * * *", totalRuns: 3})
	source.GetHeatmapFunc = func(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, year int) ([]model.HeatmapBin, error) {
		return nil, goerr.New("portal unavailable")
	}
	page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})

	drain(ctx, page, page.Start(ctx))

	view := page.View()
	gt.True(t, view.WorkflowLoaded)
	gt.True(t, view.HeatmapLoading)
	gt.A(t, view.Bins).Length(0)
	gt.Equal(t, view.Selection, model.SelectionNone)
}

func TestPage_CachedResultsAreShownBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{cron: "*/5 * * * *", totalRuns: 2})
	loader := newTestLoader(t, source)

	first := newTestPage(loader, &mocks.NavigatorMock{})
	drain(ctx, first, first.Start(ctx))

	second := newTestPage(loader, &mocks.NavigatorMock{})
	cmds := second.Start(ctx)

	view := second.View()
	gt.True(t, view.WorkflowLoaded)
	gt.True(t, view.RunHistoryLoaded)
	gt.False(t, view.HeatmapLoading)
	gt.A(t, view.Bins).Length(2)

	gt.A(t, cmds).Length(3)
	drain(ctx, second, cmds)
	gt.A(t, source.GetWorkflowCalls()).Length(2)
}

func TestPage_StartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	page := newTestPage(newTestLoader(t, newSource(sourceFixture{})), &mocks.NavigatorMock{})

	gt.A(t, page.Start(ctx)).Length(3)
	gt.A(t, page.Start(ctx)).Length(0)
}

func TestPage_DetailTableClosedAfterEveryNonOpenEvent(t *testing.T) {
	ctx := context.Background()
	source := newSource(sourceFixture{cron: "*/5 * * * *", totalRuns: 3})
	page := newTestPage(newTestLoader(t, source), &mocks.NavigatorMock{})
	drain(ctx, page, page.Start(ctx))

	bins := page.View().Bins
	events := []usecase.Event{
		usecase.BinClicked{Bin: &bins[0]},
		usecase.BinClicked{Bin: &bins[1]},
		usecase.BinClicked{Bin: nil},
		usecase.TableClosed{},
		usecase.YearChanged{Year: 2022},
	}

	for _, ev := range events {
		page.Handle(ctx, usecase.BinClicked{Bin: &bins[0]})
		page.Handle(ctx, usecase.TableOpened{})
		gt.True(t, page.View().DetailTableOpen)

		drain(ctx, page, page.Handle(ctx, ev))
		gt.False(t, page.View().DetailTableOpen)
	}
}
