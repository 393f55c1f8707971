package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/model"
)

// Handle logs an error that has no caller left to return it to. Errors
// caused by invalid input are logged as warnings.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if goerr.HasTag(err, model.ErrTagValidation) {
		logger.Warn("invalid request", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
