package analyzers

import (
	"fmt"

	"github.com/dukex/flowcheck/pkg/models"
)

// ErrorHandling checks that failures are caught somewhere.
type ErrorHandling struct{}

func (ErrorHandling) Category() models.Category { return models.CategoryErrorHandling }

func (ErrorHandling) Analyze(workflow *models.Workflow, strictness Strictness) models.CategoryResult {
	f := newFindings(penalties{issue: 20, critical: 35})

	if strictness.AtLeast(StrictnessMedium) && !hasErrorTrigger(workflow) {
		f.issue("Workflow has no error trigger node", "Add an error trigger to handle failed executions")
	}

	if strictness.AtLeast(StrictnessHigh) && workflow.ErrorWorkflow() == "" {
		f.issue("Workflow has no error workflow configured", "Set an error workflow in the workflow settings")
	}

	if strictness.AtLeast(StrictnessMedium) {
		for _, node := range HTTPNodes(workflow) {
			if !node.ContinueOnFail && !node.RetryOnFail {
				f.issue(
					fmt.Sprintf("HTTP node %q has no retry or continue-on-fail", node.Name),
					"Enable retry on fail for network calls",
				)
			}
		}
	}

	return f.result()
}

func hasErrorTrigger(workflow *models.Workflow) bool {
	for _, node := range workflow.Nodes {
		if node.IsErrorTrigger() {
			return true
		}
	}

	return false
}

// HasErrorHandling reports whether the workflow has an error trigger or an error workflow.
func HasErrorHandling(workflow *models.Workflow) bool {
	return hasErrorTrigger(workflow) || workflow.ErrorWorkflow() != ""
}
