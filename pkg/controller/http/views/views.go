// Package views holds the templ components of the statistics page. Every
// component renders from Props alone; page state never lives here.
//
//go:generate templ generate
package views

import (
	"strconv"
	"time"

	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
)

// Props is the input of every statistics page component
type Props struct {
	SessionID types.SessionID
	View      model.PageView
	// Location formats date stamps; nil means UTC
	Location *time.Location
}

func (p Props) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Props) title() string {
	if p.View.WorkflowName != "" {
		return p.View.WorkflowName
	}
	return p.View.WorkflowID.String()
}

func (p Props) path(action string) string {
	return "/sessions/" + p.SessionID.String() + "/" + action
}

// get and post return datastar expressions calling a session endpoint
func (p Props) get(action string) string {
	return "@get('" + p.path(action) + "')"
}

func (p Props) post(action string) string {
	return "@post('" + p.path(action) + "')"
}

func (p Props) selectedDate() string {
	return model.FormatDateStamp(p.View.SelectedDate, p.location())
}

func (p Props) selectedScore() string {
	return formatScore(p.View.SelectedScore)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func schedule(v model.PageView) string {
	switch {
	case !v.WorkflowLoaded:
		return "-"
	case v.CronSyntax == "":
		return "Non cron"
	default:
		return v.CronSyntax
	}
}

func totalRuns(v model.PageView) string {
	if !v.RunHistoryLoaded {
		return "-"
	}
	return strconv.Itoa(v.TotalRuns)
}

// daysPerWeek is the number of heatmap cells per column
const daysPerWeek = 7

type heatmapCell struct {
	index    int
	bucket   string
	selected bool
	title    string
}

func weeks(p Props) [][]heatmapCell {
	v := p.View
	var weeks [][]heatmapCell
	var week []heatmapCell

	for i, bin := range v.Bins {
		score, runs := bin.Tooltip(p.location())
		cell := heatmapCell{
			index: i,
			selected: v.Selection == model.SelectionHasData && bin.HasScore() &&
				bin.WorkflowRunDetail.DateStamp == v.SelectedDate,
			title: score + "\n" + runs,
		}
		if bucket := bin.Bucket(); bucket >= 0 {
			cell.bucket = "bucket-" + strconv.Itoa(bucket)
		}

		week = append(week, cell)
		if len(week) == daysPerWeek {
			weeks = append(weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
