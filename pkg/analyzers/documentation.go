package analyzers

import (
	"fmt"
	"math"
	"strings"

	"github.com/dukex/flowcheck/pkg/models"
)

const minNotesCoverage = 0.5

// Documentation checks the workflow description and node notes.
type Documentation struct{}

func (Documentation) Category() models.Category { return models.CategoryDocumentation }

func (Documentation) Analyze(workflow *models.Workflow, strictness Strictness) models.CategoryResult {
	f := newFindings(penalties{issue: 15, critical: 25})

	if strictness.AtLeast(StrictnessMedium) && strings.TrimSpace(workflow.Description()) == "" {
		f.issue("Workflow has no description", "Describe the workflow purpose in its settings")
	}

	if strictness.AtLeast(StrictnessHigh) && len(workflow.FunctionalNodes()) > 0 {
		coverage := workflow.NotesCoverage()
		if coverage < minNotesCoverage {
			f.issue(
				fmt.Sprintf("Only %d%% of nodes have notes", int(math.Round(coverage*100))),
				"Add notes to explain what each node does",
			)
		}
	}

	return f.result()
}
