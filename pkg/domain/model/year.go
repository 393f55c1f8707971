package model

import (
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// selectableYears is the number of years offered by the year filter
const selectableYears = 3

// YearFilter holds the selected heatmap year, restricted to the current
// year and the two before it
type YearFilter struct {
	current int
	options []int
}

// NewYearFilter creates a filter selecting the year of now
func NewYearFilter(now time.Time) YearFilter {
	present := now.Year()
	options := make([]int, 0, selectableYears)
	for i := 0; i < selectableYears; i++ {
		options = append(options, present-i)
	}
	return YearFilter{
		current: present,
		options: options,
	}
}

// Current returns the selected year
func (f YearFilter) Current() int {
	return f.current
}

// Options returns the selectable years, newest first
func (f YearFilter) Options() []int {
	return slices.Clone(f.options)
}

// Contains reports whether year can be selected
func (f YearFilter) Contains(year int) bool {
	return slices.Contains(f.options, year)
}

// Select changes the selected year. It reports whether the selection
// actually changed; selecting the current year again is a no-op.
func (f *YearFilter) Select(year int) (bool, error) {
	if !f.Contains(year) {
		return false, goerr.Wrap(ErrYearOutOfRange, "cannot select year",
			goerr.V("year", year),
			goerr.V("options", f.options),
			goerr.T(ErrTagValidation))
	}
	if year == f.current {
		return false, nil
	}
	f.current = year
	return true, nil
}

// Bounds of a heatmap year that any statistics source can answer. Stored
// timestamps are Unix nanoseconds, which end in 2262.
const (
	MinHeatmapYear = 1970
	MaxHeatmapYear = 2200
)

// ValidateHeatmapYear rejects years outside MinHeatmapYear..MaxHeatmapYear
func ValidateHeatmapYear(year int) error {
	if year < MinHeatmapYear || year > MaxHeatmapYear {
		return goerr.Wrap(ErrYearOutOfRange, "heatmap year is not supported",
			goerr.V("year", year),
			goerr.V("min", MinHeatmapYear),
			goerr.V("max", MaxHeatmapYear),
			goerr.T(ErrTagValidation))
	}
	return nil
}
