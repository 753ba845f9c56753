package analyzers

import (
	"fmt"
	"strings"

	"github.com/dukex/flowcheck/pkg/models"
)

const minWorkflowNameLength = 5

// Naming checks workflow and node names.
type Naming struct{}

func (Naming) Category() models.Category { return models.CategoryNaming }

func (Naming) Analyze(workflow *models.Workflow, strictness Strictness) models.CategoryResult {
	f := newFindings(penalties{issue: 15, critical: 30})

	name := strings.TrimSpace(workflow.Name)

	switch {
	case name == "":
		f.issue("Workflow name is missing", "Give the workflow a descriptive name")
	case len(name) < minWorkflowNameLength && strictness.AtLeast(StrictnessMedium):
		f.issue(
			fmt.Sprintf("Workflow name %q is too short", name),
			fmt.Sprintf("Use a workflow name of at least %d characters", minWorkflowNameLength),
		)
	}

	if strictness.AtLeast(StrictnessMedium) {
		for _, node := range workflow.Nodes {
			if node.HasDefaultName() {
				f.issue(
					fmt.Sprintf("Node %q uses a default name derived from its type", node.Name),
					"Rename nodes to describe what they do, not what they are",
				)
			}
		}
	}

	for _, duplicate := range duplicateNames(workflow.Nodes) {
		f.criticalIssue(
			fmt.Sprintf("Found duplicate node name: %q", duplicate),
			"Give every node a unique name",
		)
	}

	return f.result()
}

// duplicateNames returns each name used by more than one node, in first-seen order.
func duplicateNames(nodes []models.Node) []string {
	counts := make(map[string]int, len(nodes))

	var order []string

	for _, node := range nodes {
		if node.Name == "" {
			continue
		}

		if counts[node.Name] == 0 {
			order = append(order, node.Name)
		}

		counts[node.Name]++
	}

	var duplicates []string

	for _, name := range order {
		if counts[name] > 1 {
			duplicates = append(duplicates, name)
		}
	}

	return duplicates
}
