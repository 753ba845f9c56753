// Package scoring aggregates analyzer output and computes the composite and
// confidence assessments of a workflow.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/dukex/flowcheck/pkg/analyzers"
	"github.com/dukex/flowcheck/pkg/models"
)

// ErrUnknownCategory indicates a category no analyzer is registered for.
var ErrUnknownCategory = errors.New("unknown category")

// ValidationOptions selects the strictness and the categories to run. An empty
// category list runs all of them.
type ValidationOptions struct {
	Strictness analyzers.Strictness `json:"strictness"`
	Categories []models.Category    `json:"categories"`
}

// ResolveAnalyzers returns the analyzers for the requested categories in the
// order they were requested, skipping repeats.
func ResolveAnalyzers(categories []models.Category) ([]analyzers.Analyzer, error) {
	if len(categories) == 0 {
		return analyzers.Registry(), nil
	}

	seen := make(map[models.Category]bool, len(categories))
	out := make([]analyzers.Analyzer, 0, len(categories))

	for _, category := range categories {
		if seen[category] {
			continue
		}

		analyzer, ok := analyzers.ForCategory(category)
		if !ok {
			return nil, fmt.Errorf("%w '%s'", ErrUnknownCategory, category)
		}

		seen[category] = true

		out = append(out, analyzer)
	}

	return out, nil
}

// ValidateCategories runs the requested analyzers one after the other and
// aggregates their results.
func ValidateCategories(workflow *models.Workflow, opts ValidationOptions) (models.ValidationResult, error) {
	selected, err := ResolveAnalyzers(opts.Categories)
	if err != nil {
		return models.ValidationResult{}, err
	}

	strictness := opts.Strictness
	if strictness == "" {
		strictness = analyzers.StrictnessMedium
	}

	results := make(map[models.Category]models.CategoryResult, len(selected))
	for _, analyzer := range selected {
		results[analyzer.Category()] = analyzer.Analyze(workflow, strictness)
	}

	return Aggregate(results), nil
}

// Aggregate sums issue counts and averages the category scores. The overall
// result passes only when no category reported an issue.
func Aggregate(results map[models.Category]models.CategoryResult) models.ValidationResult {
	out := models.ValidationResult{
		Passed:     true,
		Categories: make(map[models.Category]models.CategoryResult, len(results)),
	}

	if len(results) == 0 {
		out.Score = 100

		return out
	}

	total := 0

	for category, result := range results {
		out.Categories[category] = result
		out.TotalIssues += len(result.Issues)
		out.CriticalIssues += result.Critical
		total += result.Score
	}

	out.Score = int(math.Round(float64(total) / float64(len(results))))
	out.Passed = out.TotalIssues == 0 && out.CriticalIssues == 0

	return out
}
