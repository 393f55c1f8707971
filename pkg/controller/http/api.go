package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/usecase"
)

// maxRequestBody limits the size of ingest request bodies
const maxRequestBody = 1 << 20

// apiHandler serves the JSON statistics and ingest API
type apiHandler struct {
	loader *usecase.Loader
	ingest *usecase.Ingest
}

func workflowParams(r *http.Request) (types.ProjectID, types.WorkflowID) {
	return types.ProjectID(chi.URLParam(r, "projectID")), types.WorkflowID(chi.URLParam(r, "workflowID"))
}

func (h *apiHandler) getWorkflow(w http.ResponseWriter, r *http.Request) {
	projectID, workflowID := workflowParams(r)
	summary, err := h.loader.Workflow(r.Context(), projectID, workflowID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (h *apiHandler) getRunHistory(w http.ResponseWriter, r *http.Request) {
	projectID, workflowID := workflowParams(r)
	history, err := h.loader.RunHistory(r.Context(), projectID, workflowID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, history)
}

type heatmapResponse struct {
	Year       int                `json:"year"`
	Thresholds []float64          `json:"thresholds"`
	Bins       []model.HeatmapBin `json:"bins"`
}

func (h *apiHandler) getHeatmap(w http.ResponseWriter, r *http.Request) {
	projectID, workflowID := workflowParams(r)

	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, goerr.Wrap(err, "invalid year parameter",
				goerr.V("year", v),
				goerr.T(model.ErrTagValidation)))
			return
		}
		year = parsed
	}
	if err := model.ValidateHeatmapYear(year); err != nil {
		writeError(w, r, err)
		return
	}

	bins, err := h.loader.Heatmap(r.Context(), projectID, workflowID, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, heatmapResponse{
		Year:       year,
		Thresholds: model.ValueThresholds,
		Bins:       bins,
	})
}

func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body", goerr.T(model.ErrTagValidation))
	}
	return nil
}

func (h *apiHandler) registerWorkflow(w http.ResponseWriter, r *http.Request) {
	var workflow model.Workflow
	if err := decodeBody(r, &workflow); err != nil {
		writeError(w, r, err)
		return
	}
	workflow.ProjectID = types.ProjectID(chi.URLParam(r, "projectID"))

	if err := h.ingest.RegisterWorkflow(r.Context(), &workflow); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, &workflow)
}

func (h *apiHandler) recordRun(w http.ResponseWriter, r *http.Request) {
	var run model.WorkflowRun
	if err := decodeBody(r, &run); err != nil {
		writeError(w, r, err)
		return
	}
	run.ProjectID, run.WorkflowID = workflowParams(r)

	saved, err := h.ingest.RecordRun(r.Context(), &run)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, saved)
}
