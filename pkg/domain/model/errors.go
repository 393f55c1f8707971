package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrWorkflowNotFound = goerr.New("workflow not found")
	ErrYearOutOfRange   = goerr.New("year is outside of the selectable range")
	ErrSessionNotFound  = goerr.New("session not found")
	ErrStaleHeatmap     = goerr.New("heatmap year has changed")
)

// ErrTagValidation marks errors caused by invalid input rather than by a failing backend
var ErrTagValidation = goerr.NewTag("validation")
