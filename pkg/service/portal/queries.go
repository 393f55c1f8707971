package portal

const (
	opListWorkflow = "workflowListDetails"

	queryListWorkflow = `query workflowListDetails($workflowInput: ListWorkflowsInput!) {
  ListWorkflow(workflowInput: $workflowInput) {
    total_no_of_workflows
    workflows {
      workflow_id
      workflow_name
      project_id
      cronSyntax
    }
  }
}`

	opWorkflowRuns = "workflowDetails"

	queryWorkflowRuns = `query workflowDetails($workflowRunsInput: GetWorkflowRunsInput!) {
  getWorkflowRuns(workflowRunsInput: $workflowRunsInput) {
    total_no_of_workflow_runs
    workflow_runs {
      workflow_run_id
    }
  }
}`

	opHeatmapData = "getHeatmapData"

	queryHeatmapData = `query getHeatmapData($project_id: String!, $workflow_id: String!, $year: Int!) {
  getHeatmapData(project_id: $project_id, workflow_id: $workflow_id, year: $year) {
    bins {
      value
      workflowRunDetail {
        no_of_runs
        date_stamp
      }
    }
  }
}`
)
