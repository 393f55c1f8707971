package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
)

func TestBucketOf(t *testing.T) {
	tests := []struct {
		value    float64
		expected int
	}{
		{0, 0},
		{13, 0},
		{13.5, 1},
		{26, 1},
		{39, 2},
		{49, 3},
		{50, 4},
		{69, 5},
		{72, 6},
		{89, 7},
		{95, 8},
		{100, 8},
		{120, 8},
	}

	for _, tt := range tests {
		gt.Equal(t, model.BucketOf(tt.value), tt.expected)
	}
}

func TestHeatmapBinScore(t *testing.T) {
	empty := model.HeatmapBin{Value: 80, WorkflowRunDetail: model.WorkflowRunDetail{NoOfRuns: 0}}
	gt.False(t, empty.HasScore())
	gt.Equal(t, empty.Bucket(), -1)

	scored := model.HeatmapBin{Value: 80, WorkflowRunDetail: model.WorkflowRunDetail{NoOfRuns: 2}}
	gt.True(t, scored.HasScore())
	gt.Equal(t, scored.Bucket(), 7)
}

func TestHeatmapBinTooltip(t *testing.T) {
	bin := model.HeatmapBin{
		Value: 72,
		WorkflowRunDetail: model.WorkflowRunDetail{
			NoOfRuns:  3,
			DateStamp: time.Date(2023, time.November, 15, 21, 30, 0, 0, time.UTC).Unix(),
		},
	}
	score, runs := bin.Tooltip(time.UTC)
	gt.Equal(t, score, "72% Average Resiliency")
	gt.Equal(t, runs, "3 completed runs on 15 Nov, 21:30")

	bin.Value = 66.67
	score, _ = bin.Tooltip(nil)
	gt.Equal(t, score, "66.67% Average Resiliency")
}

func TestBuildHeatmapBins(t *testing.T) {
	at := func(month time.Month, day, hour int) time.Time {
		return time.Date(2024, month, day, hour, 0, 0, 0, time.UTC)
	}
	run := func(phase types.RunPhase, score float64, finished time.Time) *model.WorkflowRun {
		return &model.WorkflowRun{
			ID:              types.NewWorkflowRunID(),
			WorkflowID:      "wf",
			ProjectID:       "p",
			Phase:           phase,
			ResiliencyScore: score,
			StartedAt:       finished.Add(-time.Minute),
			FinishedAt:      finished,
		}
	}

	runs := []*model.WorkflowRun{
		run(types.RunPhaseSucceeded, 100, at(time.January, 1, 3)),
		run(types.RunPhaseFailed, 50, at(time.January, 1, 9)),
		run(types.RunPhaseSucceeded, 80, at(time.March, 1, 12)),
		run(types.RunPhaseRunning, 0, at(time.March, 2, 12)),
		run(types.RunPhaseSucceeded, 90, time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC)),
		nil,
	}

	bins := model.BuildHeatmapBins(2024, runs)

	t.Run("one bin per day of a leap year", func(t *testing.T) {
		gt.A(t, bins).Length(366)
	})

	t.Run("runs on the same day are averaged", func(t *testing.T) {
		jan1 := bins[0]
		gt.Equal(t, jan1.WorkflowRunDetail.NoOfRuns, 2)
		gt.Equal(t, jan1.Value, 75.0)
		gt.Equal(t, jan1.WorkflowRunDetail.DateStamp, at(time.January, 1, 9).Unix())
	})

	t.Run("day index follows the calendar", func(t *testing.T) {
		// 2024-03-01 is day 61 of a leap year
		mar1 := bins[60]
		gt.Equal(t, mar1.WorkflowRunDetail.NoOfRuns, 1)
		gt.Equal(t, mar1.Value, 80.0)
	})

	t.Run("running runs are not counted", func(t *testing.T) {
		mar2 := bins[61]
		gt.Equal(t, mar2.WorkflowRunDetail.NoOfRuns, 0)
		gt.False(t, mar2.HasScore())
		gt.Equal(t, mar2.WorkflowRunDetail.DateStamp, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC).Unix())
	})

	t.Run("runs of other years are ignored", func(t *testing.T) {
		total := 0
		for _, b := range bins {
			total += b.WorkflowRunDetail.NoOfRuns
		}
		gt.Equal(t, total, 3)
	})

	t.Run("regular year", func(t *testing.T) {
		gt.A(t, model.BuildHeatmapBins(2023, nil)).Length(365)
	})
}
