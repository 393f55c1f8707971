package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/types"
)

// Fixtures is a set of workflows and runs loaded from YAML into a repository
type Fixtures struct {
	Workflows []Workflow    `yaml:"workflows"`
	Runs      []WorkflowRun `yaml:"runs"`
}

// Validate validates the fixtures: every entry must be valid, workflow IDs
// unique per project and every run must belong to a declared workflow
func (f *Fixtures) Validate() error {
	type key struct {
		project  types.ProjectID
		workflow types.WorkflowID
	}
	known := make(map[key]bool)

	for i := range f.Workflows {
		w := &f.Workflows[i]
		if err := w.Validate(); err != nil {
			return goerr.Wrap(err, "invalid workflow at index",
				goerr.V("index", i),
				goerr.V("id", w.ID))
		}
		k := key{w.ProjectID, w.ID}
		if known[k] {
			return goerr.New("duplicate workflow ID",
				goerr.V("project", w.ProjectID),
				goerr.V("id", w.ID),
				goerr.T(ErrTagValidation))
		}
		known[k] = true
	}

	runIDs := make(map[types.WorkflowRunID]bool)
	for i := range f.Runs {
		r := &f.Runs[i]
		if err := r.Validate(); err != nil {
			return goerr.Wrap(err, "invalid run at index",
				goerr.V("index", i),
				goerr.V("id", r.ID))
		}
		if runIDs[r.ID] {
			return goerr.New("duplicate run ID", goerr.V("id", r.ID), goerr.T(ErrTagValidation))
		}
		runIDs[r.ID] = true

		if !known[key{r.ProjectID, r.WorkflowID}] {
			return goerr.New("run refers to unknown workflow",
				goerr.V("id", r.ID),
				goerr.V("project", r.ProjectID),
				goerr.V("workflow", r.WorkflowID),
				goerr.T(ErrTagValidation))
		}
	}

	return nil
}
