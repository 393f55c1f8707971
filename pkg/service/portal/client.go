package portal

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/domain/interfaces"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

//go:embed schema.graphql
var schemaSource string

// maxResponseSize bounds the size of a portal response body
const maxResponseSize = 16 << 20

// Client reads workflow statistics from a chaos portal GraphQL endpoint
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// Option is a functional option for configuring Client
type Option func(*Client)

// WithToken sets the bearer token sent with every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a portal client. The query documents are validated against
// the portal schema before the client is returned.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, goerr.New("portal endpoint is required")
	}

	if err := ValidateQueries(); err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ValidateQueries checks every query document against the portal schema
func ValidateQueries() error {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSource})
	if err != nil {
		return goerr.Wrap(err, "failed to load portal schema")
	}

	for name, query := range map[string]string{
		opListWorkflow: queryListWorkflow,
		opWorkflowRuns: queryWorkflowRuns,
		opHeatmapData:  queryHeatmapData,
	} {
		if _, errs := gqlparser.LoadQuery(schema, query); len(errs) > 0 {
			return goerr.Wrap(errs, "invalid portal query", goerr.V("operation", name))
		}
	}
	return nil
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors gqlerror.List   `json:"errors"`
}

func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{
		Query:         query,
		OperationName: operation,
		Variables:     variables,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to encode graphql request", goerr.V("operation", operation))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create portal request", goerr.V("endpoint", c.endpoint))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send portal request", goerr.V("operation", operation))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return goerr.Wrap(err, "failed to read portal response", goerr.V("operation", operation))
	}

	if resp.StatusCode != http.StatusOK {
		return goerr.New("portal returned an error status",
			goerr.V("operation", operation),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", truncate(string(raw), 512)))
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(raw, &gqlResp); err != nil {
		return goerr.Wrap(err, "failed to decode portal response", goerr.V("operation", operation))
	}
	if len(gqlResp.Errors) > 0 {
		return goerr.Wrap(gqlResp.Errors, "portal query failed", goerr.V("operation", operation))
	}
	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return goerr.New("portal response has no data", goerr.V("operation", operation))
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return goerr.Wrap(err, "failed to decode portal data", goerr.V("operation", operation))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}

// GetWorkflow implements interfaces.StatsSource
func (c *Client) GetWorkflow(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.WorkflowSummary, error) {
	var data struct {
		ListWorkflow struct {
			Workflows []*struct {
				WorkflowID   string `json:"workflow_id"`
				WorkflowName string `json:"workflow_name"`
				ProjectID    string `json:"project_id"`
				CronSyntax   string `json:"cronSyntax"`
			} `json:"workflows"`
		} `json:"ListWorkflow"`
	}

	vars := map[string]any{
		"workflowInput": map[string]any{
			"project_id":   projectID.String(),
			"workflow_ids": []string{workflowID.String()},
		},
	}
	if err := c.do(ctx, opListWorkflow, queryListWorkflow, vars, &data); err != nil {
		return nil, err
	}

	workflows := data.ListWorkflow.Workflows
	if len(workflows) == 0 || workflows[0] == nil {
		return nil, goerr.Wrap(model.ErrWorkflowNotFound, "portal has no such workflow",
			goerr.V("projectID", projectID),
			goerr.V("workflowID", workflowID))
	}

	w := workflows[0]
	summary := &model.WorkflowSummary{
		ID:         types.WorkflowID(w.WorkflowID),
		ProjectID:  types.ProjectID(w.ProjectID),
		Name:       w.WorkflowName,
		CronSyntax: w.CronSyntax,
	}
	if summary.ProjectID == "" {
		summary.ProjectID = projectID
	}
	return summary, nil
}

// GetRunHistory implements interfaces.StatsSource
func (c *Client) GetRunHistory(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID) (*model.RunHistorySummary, error) {
	var data struct {
		GetWorkflowRuns struct {
			TotalNoOfWorkflowRuns int `json:"total_no_of_workflow_runs"`
			WorkflowRuns          []*struct {
				WorkflowRunID string `json:"workflow_run_id"`
			} `json:"workflow_runs"`
		} `json:"getWorkflowRuns"`
	}

	vars := map[string]any{
		"workflowRunsInput": map[string]any{
			"project_id":   projectID.String(),
			"workflow_ids": []string{workflowID.String()},
		},
	}
	if err := c.do(ctx, opWorkflowRuns, queryWorkflowRuns, vars, &data); err != nil {
		return nil, err
	}

	summary := &model.RunHistorySummary{
		TotalRuns: data.GetWorkflowRuns.TotalNoOfWorkflowRuns,
	}
	for _, r := range data.GetWorkflowRuns.WorkflowRuns {
		if r != nil {
			summary.RunIDs = append(summary.RunIDs, types.WorkflowRunID(r.WorkflowRunID))
		}
	}
	return summary, nil
}

// GetHeatmap implements interfaces.StatsSource. Weeks are flattened into
// one bin sequence.
func (c *Client) GetHeatmap(ctx context.Context, projectID types.ProjectID, workflowID types.WorkflowID, year int) ([]model.HeatmapBin, error) {
	var data struct {
		GetHeatmapData []struct {
			Bins []struct {
				Value             *float64 `json:"value"`
				WorkflowRunDetail struct {
					NoOfRuns  int     `json:"no_of_runs"`
					DateStamp float64 `json:"date_stamp"`
				} `json:"workflowRunDetail"`
			} `json:"bins"`
		} `json:"getHeatmapData"`
	}

	vars := map[string]any{
		"project_id":  projectID.String(),
		"workflow_id": workflowID.String(),
		"year":        year,
	}
	if err := c.do(ctx, opHeatmapData, queryHeatmapData, vars, &data); err != nil {
		return nil, err
	}

	var bins []model.HeatmapBin
	for _, week := range data.GetHeatmapData {
		for _, b := range week.Bins {
			bin := model.HeatmapBin{
				WorkflowRunDetail: model.WorkflowRunDetail{
					NoOfRuns:  b.WorkflowRunDetail.NoOfRuns,
					DateStamp: int64(b.WorkflowRunDetail.DateStamp),
				},
			}
			if b.Value != nil {
				bin.Value = *b.Value
			}
			bins = append(bins, bin)
		}
	}
	return bins, nil
}

var _ interfaces.StatsSource = (*Client)(nil)
