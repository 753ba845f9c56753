package scoring

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/dukex/flowcheck/pkg/analyzers"
	"github.com/dukex/flowcheck/pkg/models"
)

// Score axes of the composite analysis.
const (
	AxisComplexity      = "complexity"
	AxisPerformance     = "performance"
	AxisSecurity        = "security"
	AxisMaintainability = "maintainability"
)

const (
	maxScore = 10.0

	highComplexity = 8.0

	httpVolumeThreshold     = 5
	httpHeavyThreshold      = 10
	httpSequentialThreshold = 3

	lowNotesCoverage      = 0.3
	moderateNotesCoverage = 0.6
	defaultNamePenalty    = 0.5
	defaultNamePenaltyCap = 3.0
)

// AnalysisOptions tunes the composite analysis.
type AnalysisOptions struct {
	IncludePatterns bool `json:"include_patterns"`
}

// report collects the issues and recommendations of one analysis run.
type report struct {
	issues          []models.AnalysisIssue
	recommendations []string
}

func (r *report) add(issue models.AnalysisIssue) {
	r.issues = append(r.issues, issue)

	if issue.Suggestion != "" && !slices.Contains(r.recommendations, issue.Suggestion) {
		r.recommendations = append(r.recommendations, issue.Suggestion)
	}
}

// Analyze computes the 0-10 composite assessment of the workflow. It is derived
// from the graph shape alone and is independent of the category analyzers.
func Analyze(workflow *models.Workflow, opts AnalysisOptions) models.AnalysisResult {
	r := &report{}

	result := models.AnalysisResult{
		Scores: models.AnalysisScores{
			Complexity:      complexityScore(workflow, r),
			Performance:     performanceScore(workflow, r),
			Security:        securityScore(workflow, r),
			Maintainability: maintainabilityScore(workflow, r),
		},
		Issues:          r.issues,
		Recommendations: r.recommendations,
	}

	if result.Issues == nil {
		result.Issues = []models.AnalysisIssue{}
	}

	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}

	if opts.IncludePatterns {
		result.Patterns = DetectPatterns(workflow)
		result.AntiPatterns = DetectAntiPatterns(workflow)
	}

	return result
}

func complexityScore(workflow *models.Workflow, r *report) float64 {
	nodes := len(workflow.Nodes)

	types := make(map[string]struct{}, nodes)
	hasLoop, hasConditional := false, false

	for _, node := range workflow.Nodes {
		types[node.Type] = struct{}{}
		hasLoop = hasLoop || node.IsLoop()
		hasConditional = hasConditional || node.IsConditional()
	}

	density := float64(workflow.Connections.Count()) / float64(max(nodes, 1))

	sum := bucket(float64(nodes), 3, 8) + min(bucket(float64(len(types)), 3), 2) + bucket(density, 1, 2)

	if hasLoop {
		sum += 2
	}

	if hasConditional {
		sum++
	}

	score := min(round1(sum), maxScore)

	if score >= highComplexity {
		r.add(models.AnalysisIssue{
			Severity:   models.SeverityLow,
			Category:   AxisComplexity,
			Message:    fmt.Sprintf("Workflow complexity is high (%.1f/10)", score),
			Suggestion: "Break the workflow into smaller sub-workflows",
		})
	}

	return score
}

// bucket returns 0 for a zero value and otherwise one plus the number of
// thresholds the value exceeds.
func bucket(value float64, thresholds ...float64) float64 {
	if value <= 0 {
		return 0
	}

	out := 1.0

	for _, threshold := range thresholds {
		if value > threshold {
			out++
		}
	}

	return out
}

func performanceScore(workflow *models.Workflow, r *report) float64 {
	score := maxScore
	httpCount := len(analyzers.HTTPNodes(workflow))

	if httpCount > httpVolumeThreshold {
		score -= 2

		r.add(models.AnalysisIssue{
			Severity:   models.SeverityMedium,
			Category:   AxisPerformance,
			Message:    fmt.Sprintf("Workflow makes %d HTTP requests", httpCount),
			Suggestion: "Batch or cache HTTP requests where possible",
		})
	}

	if httpCount > httpHeavyThreshold {
		score -= 3

		r.add(models.AnalysisIssue{
			Severity:   models.SeverityHigh,
			Category:   AxisPerformance,
			Message:    fmt.Sprintf("Workflow makes more than %d HTTP requests", httpHeavyThreshold),
			Suggestion: "Move bulk requests to a dedicated sub-workflow",
		})
	}

	for _, node := range analyzers.UnboundedLoops(workflow) {
		score -= 2

		r.add(models.AnalysisIssue{
			Severity:   models.SeverityHigh,
			Category:   AxisPerformance,
			Message:    fmt.Sprintf("Loop node %q has no iteration limit", node.Name),
			NodeID:     node.ID,
			Suggestion: "Set a batch size or iteration limit on loop nodes",
		})
	}

	if httpCount > httpSequentialThreshold {
		score--

		r.add(models.AnalysisIssue{
			Severity:   models.SeverityLow,
			Category:   AxisPerformance,
			Message:    fmt.Sprintf("%d HTTP requests may run sequentially", httpCount),
			Suggestion: "Run independent HTTP requests in parallel",
		})
	}

	return floor(score)
}

func securityScore(workflow *models.Workflow, r *report) float64 {
	score := maxScore
	secretFound := false

	for _, node := range workflow.Nodes {
		if analyzers.HasHardcodedSecret(node) {
			secretFound = true

			r.add(models.AnalysisIssue{
				Severity:   models.SeverityCritical,
				Category:   AxisSecurity,
				Message:    fmt.Sprintf("Node %q appears to contain a hardcoded secret", node.Name),
				NodeID:     node.ID,
				Suggestion: "Store secrets in credentials and reference them with expressions",
			})
		}
	}

	if secretFound {
		score -= 5
	}

	for _, node := range workflow.Nodes {
		if analyzers.LacksAuthentication(node) {
			score--

			r.add(models.AnalysisIssue{
				Severity:   models.SeverityMedium,
				Category:   AxisSecurity,
				Message:    fmt.Sprintf("HTTP node %q without authentication", node.Name),
				NodeID:     node.ID,
				Suggestion: "Configure authentication on HTTP request nodes",
			})
		}
	}

	return floor(score)
}

func maintainabilityScore(workflow *models.Workflow, r *report) float64 {
	score := maxScore

	coverage := workflow.NotesCoverage()

	switch {
	case coverage < lowNotesCoverage:
		score -= 3

		r.add(models.AnalysisIssue{
			Severity:   models.SeverityMedium,
			Category:   AxisMaintainability,
			Message:    fmt.Sprintf("Only %d%% of nodes have notes", int(math.Round(coverage*100))),
			Suggestion: "Add notes to explain what each node does",
		})
	case coverage < moderateNotesCoverage:
		score--

		r.add(models.AnalysisIssue{
			Severity:   models.SeverityLow,
			Category:   AxisMaintainability,
			Message:    fmt.Sprintf("Only %d%% of nodes have notes", int(math.Round(coverage*100))),
			Suggestion: "Add notes to explain what each node does",
		})
	}

	penalty := 0.0

	for _, node := range workflow.Nodes {
		if node.HasDefaultName() {
			penalty += defaultNamePenalty

			r.add(models.AnalysisIssue{
				Severity:   models.SeverityLow,
				Category:   AxisMaintainability,
				Message:    fmt.Sprintf("Node %q uses a default name", node.Name),
				NodeID:     node.ID,
				Suggestion: "Rename nodes to describe what they do",
			})
		}
	}

	score -= min(penalty, defaultNamePenaltyCap)

	if strings.TrimSpace(workflow.Description()) == "" {
		score--

		r.add(models.AnalysisIssue{
			Severity:   models.SeverityLow,
			Category:   AxisMaintainability,
			Message:    "Workflow has no description",
			Suggestion: "Describe the workflow purpose in its settings",
		})
	}

	return floor(score)
}

func floor(score float64) float64 {
	return round1(max(score, 0))
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
