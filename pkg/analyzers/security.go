package analyzers

import (
	"fmt"

	"github.com/dukex/flowcheck/pkg/models"
)

// Security flags literal secrets and unauthenticated outbound requests.
type Security struct{}

func (Security) Category() models.Category { return models.CategorySecurity }

func (Security) Analyze(workflow *models.Workflow, strictness Strictness) models.CategoryResult {
	f := newFindings(penalties{issue: 20, critical: 40})

	for _, node := range workflow.Nodes {
		if HasHardcodedSecret(node) {
			f.criticalIssue(
				fmt.Sprintf("Node %q may contain hardcoded sensitive data", node.Name),
				"Store secrets in credentials and reference them with expressions",
			)
		}
	}

	if strictness.AtLeast(StrictnessMedium) {
		for _, node := range workflow.Nodes {
			if LacksAuthentication(node) {
				f.issue(
					fmt.Sprintf("HTTP node %q without authentication", node.Name),
					"Configure authentication on outbound HTTP requests",
				)
			}
		}
	}

	return f.result()
}
