// Package analyzers implements the per-category workflow quality rule sets.
package analyzers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/flowcheck/pkg/models"
)

// Strictness controls which rules are applied.
type Strictness string

const (
	StrictnessLow    Strictness = "low"
	StrictnessMedium Strictness = "medium"
	StrictnessHigh   Strictness = "high"
)

// ErrInvalidStrictness indicates an unknown strictness level.
var ErrInvalidStrictness = errors.New("invalid strictness")

// ParseStrictness converts a user supplied level. An empty string means medium.
func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrictnessMedium:
		return StrictnessMedium, nil
	case StrictnessLow:
		return StrictnessLow, nil
	case StrictnessHigh:
		return StrictnessHigh, nil
	default:
		return "", fmt.Errorf("%w '%s', allowed: low, medium, high", ErrInvalidStrictness, s)
	}
}

func (s Strictness) rank() int {
	switch s {
	case StrictnessLow:
		return 0
	case StrictnessHigh:
		return 2
	default:
		return 1
	}
}

// AtLeast reports whether s is as strict as level.
func (s Strictness) AtLeast(level Strictness) bool {
	return s.rank() >= level.rank()
}

// Analyzer inspects one quality category of a workflow. Implementations must not
// mutate the workflow.
type Analyzer interface {
	Category() models.Category
	Analyze(workflow *models.Workflow, strictness Strictness) models.CategoryResult
}

// penalties are the points subtracted per issue and per critical issue.
type penalties struct {
	issue    int
	critical int
}

// findings collects the issues of one analyzer run.
type findings struct {
	penalties   penalties
	issues      []string
	suggestions []string
	critical    int
}

func newFindings(p penalties) *findings {
	return &findings{penalties: p}
}

func (f *findings) issue(message, suggestion string) {
	f.issues = append(f.issues, message)
	f.suggest(suggestion)
}

func (f *findings) criticalIssue(message, suggestion string) {
	f.critical++
	f.issue(message, suggestion)
}

func (f *findings) suggest(suggestion string) {
	if suggestion == "" {
		return
	}

	for _, existing := range f.suggestions {
		if existing == suggestion {
			return
		}
	}

	f.suggestions = append(f.suggestions, suggestion)
}

// result applies the shared formula: 100 minus the issue and critical penalties,
// floored at zero. Critical issues are also counted in the issue list but are only
// penalised once, at the critical rate.
func (f *findings) result() models.CategoryResult {
	regular := len(f.issues) - f.critical

	score := 100 - regular*f.penalties.issue - f.critical*f.penalties.critical
	if score < 0 {
		score = 0
	}

	issues := f.issues
	if issues == nil {
		issues = []string{}
	}

	suggestions := f.suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return models.CategoryResult{
		Passed:      len(f.issues) == 0 && f.critical == 0,
		Score:       score,
		Issues:      issues,
		Suggestions: suggestions,
		Critical:    f.critical,
	}
}

// Registry returns one analyzer per category in reporting order.
func Registry() []Analyzer {
	return []Analyzer{
		Naming{},
		Security{},
		Performance{},
		ErrorHandling{},
		Documentation{},
	}
}

// ForCategory returns the analyzer of the given category.
func ForCategory(category models.Category) (Analyzer, bool) {
	for _, analyzer := range Registry() {
		if analyzer.Category() == category {
			return analyzer, true
		}
	}

	return nil, false
}
