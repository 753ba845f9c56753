package models

// Category names one independent validation rule set.
type Category string

const (
	CategoryNaming        Category = "naming"
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryErrorHandling Category = "error_handling"
	CategoryDocumentation Category = "documentation"
)

// AllCategories lists every category in reporting order.
func AllCategories() []Category {
	return []Category{
		CategoryNaming,
		CategorySecurity,
		CategoryPerformance,
		CategoryErrorHandling,
		CategoryDocumentation,
	}
}

// CategoryResult is the outcome of one category analyzer.
type CategoryResult struct {
	Passed      bool     `json:"passed"`
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Critical    int      `json:"critical"`
}

// ValidationResult aggregates category results on the 0-100 scale.
type ValidationResult struct {
	Passed         bool                        `json:"passed"`
	Score          int                         `json:"score"`
	Categories     map[Category]CategoryResult `json:"categories"`
	TotalIssues    int                         `json:"total_issues"`
	CriticalIssues int                         `json:"critical_issues"`
}

// Severity grades an analysis issue.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AnalysisIssue is one finding of the composite analysis.
type AnalysisIssue struct {
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"`
	Message    string   `json:"message"`
	NodeID     string   `json:"node_id,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// AnalysisScores are the four advisory sub-scores on the 0-10 scale.
type AnalysisScores struct {
	Complexity      float64 `json:"complexity"`
	Performance     float64 `json:"performance"`
	Security        float64 `json:"security"`
	Maintainability float64 `json:"maintainability"`
}

// AnalysisResult is the advisory report, independent from pass/fail validation.
type AnalysisResult struct {
	Scores          AnalysisScores  `json:"scores"`
	Issues          []AnalysisIssue `json:"issues"`
	Recommendations []string        `json:"recommendations"`
	Patterns        []string        `json:"patterns,omitempty"`
	AntiPatterns    []string        `json:"anti_patterns,omitempty"`
}

// ConfidenceFactor is one weighted boolean input of a confidence calculation.
type ConfidenceFactor struct {
	Name        string  `json:"name"        validate:"required"`
	Weight      float64 `json:"weight"      validate:"gte=0"`
	Matched     bool    `json:"matched"`
	Description string  `json:"description,omitempty"`
}

// ConfidenceScore rates how reliable a single recommendation is.
type ConfidenceScore struct {
	Value   float64            `json:"value"`
	Band    string             `json:"band"`
	Reason  string             `json:"reason"`
	Factors []ConfidenceFactor `json:"factors"`
}
