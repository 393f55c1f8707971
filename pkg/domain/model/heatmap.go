package model

import (
	"fmt"
	"math"
	"time"
)

// ValueThresholds is the fixed ladder of resiliency cut points. A bin's
// colour/legend step is the index of the first threshold >= its value.
var ValueThresholds = []float64{13, 26, 39, 49, 59, 69, 79, 89, 100}

// NoDataNotice is shown for a selected day without completed runs
const NoDataNotice = "No data to display"

// WorkflowRunDetail is the run-count metadata attached to a heatmap bin
type WorkflowRunDetail struct {
	NoOfRuns  int   `json:"no_of_runs"`
	DateStamp int64 `json:"date_stamp"` // Unix seconds
}

// HeatmapBin is one calendar day of the yearly heatmap
type HeatmapBin struct {
	Value             float64           `json:"value"` // average resiliency, 0-100
	WorkflowRunDetail WorkflowRunDetail `json:"workflowRunDetail"`
}

// HasScore reports whether the bin carries a resiliency score. A day without
// completed runs never does, even when Value is set.
func (b HeatmapBin) HasScore() bool {
	return b.WorkflowRunDetail.NoOfRuns > 0
}

// Bucket returns the legend step of the bin, or -1 when it has no score
func (b HeatmapBin) Bucket() int {
	if !b.HasScore() {
		return -1
	}
	return BucketOf(b.Value)
}

// Date returns the bin's date stamp as time
func (b HeatmapBin) Date() time.Time {
	return time.Unix(b.WorkflowRunDetail.DateStamp, 0)
}

// Tooltip returns the two tooltip lines shown when hovering a bin
func (b HeatmapBin) Tooltip(loc *time.Location) (string, string) {
	if loc == nil {
		loc = time.UTC
	}
	score := fmt.Sprintf("%s%% Average Resiliency", formatScore(b.Value))
	runs := fmt.Sprintf("%d completed runs on %s",
		b.WorkflowRunDetail.NoOfRuns,
		FormatDateStamp(b.WorkflowRunDetail.DateStamp, loc))
	return score, runs
}

// FormatDateStamp renders a Unix date stamp as "02 Jan, 15:04"
func FormatDateStamp(stamp int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(stamp, 0).In(loc).Format("02 Jan, 15:04")
}

// BucketOf maps a resiliency value onto the ValueThresholds ladder
func BucketOf(value float64) int {
	for i, threshold := range ValueThresholds {
		if value <= threshold {
			return i
		}
	}
	return len(ValueThresholds) - 1
}

func formatScore(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// BuildHeatmapBins computes one bin per UTC calendar day of the given year
// from the completed runs among runs. Days with runs are stamped with the
// latest finish time of that day, empty days with the start of the day.
func BuildHeatmapBins(year int, runs []*WorkflowRun) []HeatmapBin {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	days := int(end.Sub(start).Hours() / 24)

	type dayAgg struct {
		sum    float64
		count  int
		latest time.Time
	}
	aggs := make([]dayAgg, days)

	for _, r := range runs {
		if r == nil || !r.Phase.IsCompleted() {
			continue
		}
		finished := r.FinishedAt.UTC()
		if finished.Before(start) || !finished.Before(end) {
			continue
		}
		idx := finished.YearDay() - 1
		aggs[idx].sum += r.ResiliencyScore
		aggs[idx].count++
		if finished.After(aggs[idx].latest) {
			aggs[idx].latest = finished
		}
	}

	bins := make([]HeatmapBin, days)
	for i, agg := range aggs {
		day := start.AddDate(0, 0, i)
		bin := HeatmapBin{
			WorkflowRunDetail: WorkflowRunDetail{
				DateStamp: day.Unix(),
			},
		}
		if agg.count > 0 {
			avg := agg.sum / float64(agg.count)
			bin.Value = math.Round(avg*100) / 100
			bin.WorkflowRunDetail.NoOfRuns = agg.count
			bin.WorkflowRunDetail.DateStamp = agg.latest.Unix()
		}
		bins[i] = bin
	}

	return bins
}
