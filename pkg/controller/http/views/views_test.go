package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/resilio/pkg/domain/model"
)

func renderViewComponent(t *testing.T, component templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	gt.NoError(t, component.Render(context.Background(), &buf)).Required()
	return buf.String()
}

func heatmapProps() Props {
	day := time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC).Unix()
	bins := make([]model.HeatmapBin, 9)
	bins[2] = model.HeatmapBin{Value: 72.5, WorkflowRunDetail: model.WorkflowRunDetail{NoOfRuns: 2, DateStamp: day}}

	return Props{
		SessionID: "s-1",
		View: model.PageView{
			WorkflowID:       "wf-1",
			WorkflowLoaded:   true,
			WorkflowName:     "nightly pod delete",
			CronSyntax:       "0 0 * * *",
			RunHistoryLoaded: true,
			TotalRuns:        2,
			ViewMode:         model.HeatmapView,
			Year:             2024,
			YearOptions:      []int{2024, 2023},
			Bins:             bins,
			Thresholds:       model.ValueThresholds,
			Selection:        model.SelectionHasData,
			SelectedDate:     day,
			SelectedScore:    72.5,
			Panel:            model.PanelStackedBar,
		},
	}
}

func TestPageOpensSessionStream(t *testing.T) {
	html := renderViewComponent(t, Page(heatmapProps()))

	gt.S(t, html).Contains("<!doctype html>")
	gt.S(t, html).Contains("<title>nightly pod delete - Resilio</title>")
	gt.S(t, html).Contains(`data-init="@get(&#39;/sessions/s-1/updates&#39;)"`)
	gt.S(t, html).Contains(`<div id="stats" data-signals="{year: 2024}">`)
}

func TestStatsEscapesWorkflowName(t *testing.T) {
	p := heatmapProps()
	p.View.WorkflowName = "<script>alert(1)</script>"

	html := renderViewComponent(t, Stats(p))

	gt.S(t, html).NotContains("<script>alert(1)</script>")
	gt.S(t, html).Contains("&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestHeatmapCellsCarryTheirYear(t *testing.T) {
	html := renderViewComponent(t, Heatmap(heatmapProps()))

	gt.S(t, html).Contains(`bins?index=2&amp;year=2024`)
	gt.S(t, html).Contains(`class="cell selected bucket-6"`)
	gt.S(t, html).Contains(`class="cell"`)
	gt.S(t, html).Contains(`<option value="2024" selected>2024</option>`)
	gt.S(t, html).Contains(`<option value="2023">2023</option>`)
	gt.S(t, html).Contains(`title="up to 100%"`)
}

func TestHeatmapLoadingHidesCells(t *testing.T) {
	p := heatmapProps()
	p.View.HeatmapLoading = true

	html := renderViewComponent(t, Heatmap(p))

	gt.S(t, html).Contains("Loading heatmap...")
	gt.S(t, html).NotContains("bins?index=")
}

func TestDetailPanels(t *testing.T) {
	t.Run("stacked bar", func(t *testing.T) {
		html := renderViewComponent(t, Detail(heatmapProps()))
		gt.S(t, html).Contains("72.5% Average Resiliency")
		gt.S(t, html).Contains(`style="width:72.5%;"`)
		gt.S(t, html).Contains("Show runs")
		gt.S(t, html).NotContains("detail-table")
	})

	t.Run("detail table", func(t *testing.T) {
		p := heatmapProps()
		p.View.DetailTableOpen = true

		html := renderViewComponent(t, Detail(p))
		gt.S(t, html).Contains("Hide runs")
		gt.S(t, html).Contains(`<table id="detail-table">`)
		gt.S(t, html).Contains("<td>03 Jan, 10:00</td>")
	})

	t.Run("no data", func(t *testing.T) {
		p := heatmapProps()
		p.View.Panel = model.PanelNoData

		html := renderViewComponent(t, Detail(p))
		gt.S(t, html).Contains("<p>No data to display</p>")
	})

	t.Run("nothing selected", func(t *testing.T) {
		p := heatmapProps()
		p.View.Panel = model.PanelNone

		gt.Equal(t, renderViewComponent(t, Detail(p)), "")
	})
}

func TestRunTableAndNoRuns(t *testing.T) {
	p := heatmapProps()
	p.View.ViewMode = model.TableView
	p.View.CronSyntax = ""
	p.View.LatestRunID = "run-1"
	p.View.NoRunsModalOpen = true

	html := renderViewComponent(t, Stats(p))

	gt.S(t, html).Contains(`id="run-table"`)
	gt.S(t, html).Contains("<td>run-1</td>")
	gt.S(t, html).Contains("<td>Non cron</td>")
	gt.S(t, html).NotContains(`id="heatmap"`)
	gt.S(t, html).Contains("This workflow has not run yet")
	gt.S(t, html).Contains(`/sessions/s-1/acknowledge`)
}

func TestWeeksSplitsBinsIntoColumns(t *testing.T) {
	cols := weeks(heatmapProps())

	gt.A(t, cols).Length(2)
	gt.A(t, cols[0]).Length(7)
	gt.A(t, cols[1]).Length(2)
	gt.True(t, cols[0][2].selected)
	gt.Equal(t, cols[0][2].bucket, "bucket-6")
	gt.Equal(t, cols[0][0].bucket, "")
}
