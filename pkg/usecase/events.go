package usecase

import (
	"context"

	"github.com/secmon-lab/resilio/pkg/domain/model"
)

// QueryKind identifies one of the three data sets of the statistics page
type QueryKind int

const (
	QueryWorkflow QueryKind = iota + 1
	QueryRunHistory
	QueryHeatmap
)

// String returns the string representation of the query kind
func (k QueryKind) String() string {
	switch k {
	case QueryWorkflow:
		return "workflow"
	case QueryRunHistory:
		return "run_history"
	case QueryHeatmap:
		return "heatmap"
	default:
		return "unknown"
	}
}

// Event is an input to the statistics page. Fetch results and operator
// interactions are both delivered as events.
type Event interface {
	EventName() string
}

// Command is a deferred side effect issued by the page. It never touches
// page state; its outcome is reported back as an event. A nil event means
// there is nothing to report.
type Command func(ctx context.Context) Event

// WorkflowLoaded delivers workflow metadata. Cached marks a value read from
// the query cache while the network load is still running; the same holds
// for the other loaded events.
type WorkflowLoaded struct {
	Summary *model.WorkflowSummary
	Cached  bool
}

// RunHistoryLoaded delivers the run-history summary
type RunHistoryLoaded struct {
	Summary *model.RunHistorySummary
	Cached  bool
}

// HeatmapLoaded delivers the heatmap bins of one year
type HeatmapLoaded struct {
	Year   int
	Bins   []model.HeatmapBin
	Cached bool
}

// FetchFailed reports a failed query. Year is set for heatmap queries only.
type FetchFailed struct {
	Query QueryKind
	Year  int
	Err   error
}

// BinClicked is a click on the heatmap. A nil Bin is a click outside any cell.
type BinClicked struct {
	Bin *model.HeatmapBin
}

// YearChanged requests the heatmap of another year
type YearChanged struct {
	Year int
}

// TableOpened opens the run table of the selected day
type TableOpened struct{}

// TableClosed closes the run table of the selected day
type TableClosed struct{}

// NoRunsAcknowledged dismisses the no-runs notice
type NoRunsAcknowledged struct{}

func (WorkflowLoaded) EventName() string { return "workflow_loaded" }
func (RunHistoryLoaded) EventName() string { return "run_history_loaded" }
func (HeatmapLoaded) EventName() string { return "heatmap_loaded" }
func (FetchFailed) EventName() string { return "fetch_failed" }
func (BinClicked) EventName() string { return "bin_clicked" }
func (YearChanged) EventName() string { return "year_changed" }
func (TableOpened) EventName() string { return "table_opened" }
func (TableClosed) EventName() string { return "table_closed" }
func (NoRunsAcknowledged) EventName() string { return "no_runs_acknowledged" }
