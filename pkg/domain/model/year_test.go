package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/resilio/pkg/domain/model"
)

func TestYearFilter(t *testing.T) {
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

	t.Run("defaults to the present year", func(t *testing.T) {
		f := model.NewYearFilter(now)
		gt.Equal(t, f.Current(), 2026)
		gt.Equal(t, f.Options(), []int{2026, 2025, 2024})
	})

	t.Run("select an offered year", func(t *testing.T) {
		f := model.NewYearFilter(now)
		changed, err := f.Select(2024)
		gt.NoError(t, err)
		gt.True(t, changed)
		gt.Equal(t, f.Current(), 2024)
	})

	t.Run("selecting the same year is a no-op", func(t *testing.T) {
		f := model.NewYearFilter(now)
		changed, err := f.Select(2026)
		gt.NoError(t, err)
		gt.False(t, changed)
	})

	t.Run("reject years outside the window", func(t *testing.T) {
		f := model.NewYearFilter(now)
		for _, y := range []int{2023, 2027, 0} {
			changed, err := f.Select(y)
			gt.Error(t, err)
			gt.False(t, changed)
			gt.True(t, errors.Is(err, model.ErrYearOutOfRange))
			gt.True(t, goerr.HasTag(err, model.ErrTagValidation))
		}
		gt.Equal(t, f.Current(), 2026)
	})

	t.Run("options are a copy", func(t *testing.T) {
		f := model.NewYearFilter(now)
		opts := f.Options()
		opts[0] = 1999
		gt.True(t, f.Contains(2026))
		gt.False(t, f.Contains(1999))
	})
}

func TestValidateHeatmapYear(t *testing.T) {
	gt.NoError(t, model.ValidateHeatmapYear(1970))
	gt.NoError(t, model.ValidateHeatmapYear(2024))
	gt.NoError(t, model.ValidateHeatmapYear(2200))

	for _, year := range []int{1969, 2201, 3000, -1} {
		err := model.ValidateHeatmapYear(year)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrYearOutOfRange))
		gt.True(t, goerr.HasTag(err, model.ErrTagValidation))
	}
}
