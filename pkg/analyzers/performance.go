package analyzers

import (
	"fmt"

	"github.com/dukex/flowcheck/pkg/models"
)

const (
	maxNodesHighStrictness = 50
	maxSequentialHTTPNodes = 3
)

// Performance flags oversized workflows, unbounded loops and request bursts.
type Performance struct{}

func (Performance) Category() models.Category { return models.CategoryPerformance }

func (Performance) Analyze(workflow *models.Workflow, strictness Strictness) models.CategoryResult {
	f := newFindings(penalties{issue: 15, critical: 30})

	if strictness.AtLeast(StrictnessHigh) && len(workflow.Nodes) > maxNodesHighStrictness {
		f.issue(
			fmt.Sprintf("Workflow has %d nodes (more than %d)", len(workflow.Nodes), maxNodesHighStrictness),
			"Split large workflows into sub-workflows",
		)
	}

	for _, node := range UnboundedLoops(workflow) {
		f.criticalIssue(
			fmt.Sprintf("Loop node %q has no iteration limit", node.Name),
			"Set a batch size or iteration limit on loop nodes",
		)
	}

	httpNodes := HTTPNodes(workflow)
	if strictness.AtLeast(StrictnessMedium) && len(httpNodes) > maxSequentialHTTPNodes && !HasParallelizationHint(workflow) {
		f.issue(
			fmt.Sprintf("Workflow has %d HTTP requests without parallelization", len(httpNodes)),
			"Enable request batching or parallel execution for independent HTTP calls",
		)
	}

	return f.result()
}
