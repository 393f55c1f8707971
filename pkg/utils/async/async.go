package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/resilio/pkg/utils/metrics"
)

// Go runs fn on its own goroutine and hands the result to deliver.
//
// fn receives a context that carries the caller's logger but not its
// cancellation, so a query started for one request keeps running after that
// request returns. If fn panics, the panic is logged under name and deliver
// is not called.
func Go[T any](ctx context.Context, name string, fn func(ctx context.Context) T, deliver func(T)) {
	taskCtx := detach(ctx, name)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				metrics.AsyncPanicsTotal.WithLabelValues(name).Inc()
				ctxlog.From(taskCtx).Error("Panic in async task",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		deliver(fn(taskCtx))
	}()
}

func detach(ctx context.Context, name string) context.Context {
	logger := ctxlog.From(ctx).With("task", name)
	return ctxlog.With(context.Background(), logger)
}
