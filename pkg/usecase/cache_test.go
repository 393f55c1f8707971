package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/usecase"
)

func TestQueryCache(t *testing.T) {
	t.Run("invalid size", func(t *testing.T) {
		_, err := usecase.NewQueryCache(0)
		gt.Error(t, err)
	})

	t.Run("invalidate drops only the workflow", func(t *testing.T) {
		cache, err := usecase.NewQueryCache(16)
		gt.NoError(t, err).Required()

		cache.Put(usecase.QueryKey{Kind: usecase.QueryWorkflow, ProjectID: "p", WorkflowID: "a"}, &model.WorkflowSummary{})
		cache.Put(usecase.QueryKey{Kind: usecase.QueryHeatmap, ProjectID: "p", WorkflowID: "a", Year: 2024}, []model.HeatmapBin{})
		cache.Put(usecase.QueryKey{Kind: usecase.QueryWorkflow, ProjectID: "p", WorkflowID: "b"}, &model.WorkflowSummary{})
		cache.Put(usecase.QueryKey{Kind: usecase.QueryWorkflow, ProjectID: "q", WorkflowID: "a"}, &model.WorkflowSummary{})

		gt.Equal(t, cache.Invalidate("p", "a"), 2)
		gt.Equal(t, cache.Len(), 2)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		cache, err := usecase.NewQueryCache(2)
		gt.NoError(t, err).Required()

		for _, year := range []int{2022, 2023, 2024} {
			cache.Put(usecase.QueryKey{Kind: usecase.QueryHeatmap, ProjectID: "p", WorkflowID: "a", Year: year}, []model.HeatmapBin{})
		}
		gt.Equal(t, cache.Len(), 2)
	})
}

func TestQueryKey_String(t *testing.T) {
	key := usecase.QueryKey{Kind: usecase.QueryHeatmap, ProjectID: "p", WorkflowID: "w", Year: 2023}
	gt.Equal(t, key.String(), "heatmap/p/w/2023")
}
