package model

import "github.com/secmon-lab/resilio/pkg/domain/types"

// PageView is a read-only snapshot of the statistics page state. Renderers
// only project it; they never mutate page state directly.
type PageView struct {
	ProjectID  types.ProjectID  `json:"project_id"`
	WorkflowID types.WorkflowID `json:"workflow_id"`

	WorkflowLoaded bool   `json:"workflow_loaded"`
	WorkflowName   string `json:"workflow_name"`
	CronSyntax     string `json:"cron_syntax"`

	RunHistoryLoaded bool                `json:"run_history_loaded"`
	TotalRuns        int                 `json:"total_runs"`
	LatestRunID      types.WorkflowRunID `json:"latest_run_id"`

	ViewMode ViewMode `json:"view_mode"`

	Year        int   `json:"year"`
	YearOptions []int `json:"year_options"`

	// HeatmapLoading is true only while nothing can be shown for the
	// current year; a revalidating heatmap keeps showing its bins.
	HeatmapLoading bool         `json:"heatmap_loading"`
	Bins           []HeatmapBin `json:"bins"`
	Thresholds     []float64    `json:"thresholds"`

	Selection       SelectionKind `json:"selection"`
	SelectedDate    int64         `json:"selected_date"`
	SelectedScore   float64       `json:"selected_score"`
	Panel           Panel         `json:"panel"`
	DetailTableOpen bool          `json:"detail_table_open"`

	NoRunsModalOpen bool `json:"no_runs_modal_open"`
}
