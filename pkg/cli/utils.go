package cli

import (
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// newLoader creates the shared loader of a statistics source
func newLoader(source interfaces.StatsSource) (*usecase.Loader, error) {
	cache, err := usecase.NewQueryCache(usecase.DefaultQueryCacheSize)
	if err != nil {
		return nil, err
	}
	return usecase.NewLoader(source, cache), nil
}
