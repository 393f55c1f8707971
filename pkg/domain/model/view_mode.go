package model

// ViewMode is the layout of the statistics page
type ViewMode int

const (
	// HeatmapView shows the yearly heatmap with the day drill-down
	HeatmapView ViewMode = iota
	// TableView shows the flat run table
	TableView
)

// String returns the string representation of the view mode
func (m ViewMode) String() string {
	switch m {
	case HeatmapView:
		return "heatmap"
	case TableView:
		return "table"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (m ViewMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// SelectView decides the page layout. A heatmap is only informative for a
// recurring workflow or a one-shot workflow that has been re-run.
func SelectView(cronSyntax string, totalRuns int) ViewMode {
	if cronSyntax != "" || totalRuns > 1 {
		return HeatmapView
	}
	return TableView
}
