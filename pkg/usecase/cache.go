package usecase

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/utils/metrics"
)

// DefaultQueryCacheSize is the number of query results kept by default
const DefaultQueryCacheSize = 1024

// QueryKey identifies a cached query result. Year is zero except for
// heatmap queries.
type QueryKey struct {
	Kind       QueryKind
	ProjectID  types.ProjectID
	WorkflowID types.WorkflowID
	Year       int
}

// String returns the key used to collapse identical in-flight loads
func (k QueryKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%d", k.Kind, k.ProjectID, k.WorkflowID, k.Year)
}

// QueryCache keeps the latest result of each query, shared by all pages.
// Cached values are treated as read-only by every reader.
type QueryCache struct {
	entries *lru.Cache[QueryKey, any]
}

// NewQueryCache creates a cache holding at most size results
func NewQueryCache(size int) (*QueryCache, error) {
	entries, err := lru.New[QueryKey, any](size)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create query cache", goerr.V("size", size))
	}
	return &QueryCache{entries: entries}, nil
}

// Put stores a query result
func (c *QueryCache) Put(key QueryKey, value any) {
	c.entries.Add(key, value)
}

// Invalidate drops every cached result of a workflow
func (c *QueryCache) Invalidate(projectID types.ProjectID, workflowID types.WorkflowID) int {
	removed := 0
	for _, key := range c.entries.Keys() {
		if key.ProjectID == projectID && key.WorkflowID == workflowID {
			if c.entries.Remove(key) {
				removed++
			}
		}
	}
	return removed
}

// Len returns the number of cached results
func (c *QueryCache) Len() int {
	return c.entries.Len()
}

func cacheGet[T any](c *QueryCache, key QueryKey) (T, bool) {
	var zero T
	v, ok := c.entries.Get(key)
	if !ok {
		metrics.QueryCacheLookupsTotal.WithLabelValues(key.Kind.String(), "miss").Inc()
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		metrics.QueryCacheLookupsTotal.WithLabelValues(key.Kind.String(), "miss").Inc()
		return zero, false
	}
	metrics.QueryCacheLookupsTotal.WithLabelValues(key.Kind.String(), "hit").Inc()
	return typed, true
}
