package model

// SelectionKind is the state of the heatmap bin selection
type SelectionKind int

const (
	// SelectionNone means no bin is selected
	SelectionNone SelectionKind = iota
	// SelectionHasData means a bin with completed runs is selected
	SelectionHasData
	// SelectionEmpty means a bin without completed runs is selected
	SelectionEmpty
)

// String returns the string representation of the selection kind
func (k SelectionKind) String() string {
	switch k {
	case SelectionNone:
		return "none"
	case SelectionHasData:
		return "has_data"
	case SelectionEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k SelectionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Panel is the detail panel rendered below the heatmap
type Panel int

const (
	PanelNone Panel = iota
	PanelStackedBar
	PanelNoData
)

// String returns the string representation of the panel
func (p Panel) String() string {
	switch p {
	case PanelNone:
		return "none"
	case PanelStackedBar:
		return "stacked_bar"
	case PanelNoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Panel) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Selection is the bin selection state machine. The zero value is the
// initial None state. Transitions return a new value; the detail table flag
// can only be set while the state is HasData and every transition clears it.
type Selection struct {
	kind      SelectionKind
	dateStamp int64
	score     float64
	tableOpen bool
}

// Kind returns the current state
func (s Selection) Kind() SelectionKind {
	return s.kind
}

// DateStamp returns the latched date of a HasData selection, 0 otherwise
func (s Selection) DateStamp() int64 {
	return s.dateStamp
}

// Score returns the latched resiliency score of a HasData selection, 0 otherwise
func (s Selection) Score() float64 {
	return s.score
}

// TableOpen reports whether the detail table is open
func (s Selection) TableOpen() bool {
	return s.tableOpen
}

// Click applies a heatmap click. A nil bin is a click on the background.
func (s Selection) Click(bin *HeatmapBin) Selection {
	switch {
	case bin == nil:
		return Selection{}
	case !bin.HasScore():
		return Selection{kind: SelectionEmpty}
	default:
		return Selection{
			kind:      SelectionHasData,
			dateStamp: bin.WorkflowRunDetail.DateStamp,
			score:     bin.Value,
		}
	}
}

// Reset forces the machine back to None
func (s Selection) Reset() Selection {
	return Selection{}
}

// OpenTable opens the detail table. It is a no-op unless the state is HasData.
func (s Selection) OpenTable() Selection {
	if s.kind != SelectionHasData {
		return s
	}
	s.tableOpen = true
	return s
}

// CloseTable closes the detail table
func (s Selection) CloseTable() Selection {
	s.tableOpen = false
	return s
}

// Panel returns the detail panel derived from the state
func (s Selection) Panel() Panel {
	switch s.kind {
	case SelectionHasData:
		return PanelStackedBar
	case SelectionEmpty:
		return PanelNoData
	default:
		return PanelNone
	}
}
