package scoring

import (
	"strings"

	"github.com/dukex/flowcheck/pkg/analyzers"
	"github.com/dukex/flowcheck/pkg/models"
	"github.com/robfig/cron/v3"
)

// Pattern labels.
const (
	PatternETL           = "etl"
	PatternWebhook       = "webhook-trigger"
	PatternScheduledTask = "scheduled-task"
	PatternAPIGateway    = "api-gateway"
	PatternErrorHandling = "error-handling"
	PatternDataPipeline  = "data-pipeline"
)

// Anti-pattern labels.
const (
	AntiPatternMonolith        = "monolith"
	AntiPatternHardcodedURL    = "hardcoded-url"
	AntiPatternNoErrorHandling = "no-error-handling"
	AntiPatternHTTPBurst       = "unparallelized-http-burst"
	AntiPatternInvalidSchedule = "invalid-schedule"
)

const (
	monolithNodeThreshold        = 30
	apiGatewayHTTPThreshold      = 5
	dataPipelineTransformMinimum = 2
)

var (
	etlKeywords    = []string{"etl", "extract", "sync", "import", "export"}
	scheduleFields = []string{"cronExpression", "expression"}

	// n8n accepts both five and six field expressions.
	scheduleParser = cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
)

// nodeMix counts the node kinds the pattern matchers look at.
type nodeMix struct {
	http       int
	webhooks   int
	schedules  int
	transforms int
	datastores int
}

func countMix(workflow *models.Workflow) nodeMix {
	var mix nodeMix

	for _, node := range workflow.Nodes {
		switch {
		case node.IsHTTPLike():
			mix.http++
		case node.IsWebhook():
			mix.webhooks++
		case node.IsSchedule():
			mix.schedules++
		case node.IsTransform():
			mix.transforms++
		case node.IsDatastore():
			mix.datastores++
		}
	}

	return mix
}

// DetectPatterns returns the advisory labels of the recognised workflow shapes.
func DetectPatterns(workflow *models.Workflow) []string {
	mix := countMix(workflow)
	patterns := []string{}

	if isETL(workflow, mix) {
		patterns = append(patterns, PatternETL)
	}

	if mix.webhooks > 0 {
		patterns = append(patterns, PatternWebhook)
	}

	if mix.schedules > 0 {
		patterns = append(patterns, PatternScheduledTask)
	}

	if mix.webhooks > 0 && mix.http > apiGatewayHTTPThreshold {
		patterns = append(patterns, PatternAPIGateway)
	}

	if analyzers.HasErrorHandling(workflow) {
		patterns = append(patterns, PatternErrorHandling)
	}

	if mix.transforms >= dataPipelineTransformMinimum && mix.datastores > 0 {
		patterns = append(patterns, PatternDataPipeline)
	}

	return patterns
}

// isETL matches either an extract, transform and load node mix or a workflow
// that says it is one.
func isETL(workflow *models.Workflow, mix nodeMix) bool {
	if mix.transforms > 0 && mix.datastores > 0 && mix.http+mix.datastores >= 2 {
		return true
	}

	text := strings.ToLower(workflow.Name + " " + workflow.Description())
	for _, keyword := range etlKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}

	return false
}

// DetectAntiPatterns returns the advisory labels of the recognised smells.
func DetectAntiPatterns(workflow *models.Workflow) []string {
	antiPatterns := []string{}

	if len(workflow.Nodes) > monolithNodeThreshold {
		antiPatterns = append(antiPatterns, AntiPatternMonolith)
	}

	if hasHardcodedURL(workflow) {
		antiPatterns = append(antiPatterns, AntiPatternHardcodedURL)
	}

	if len(workflow.FunctionalNodes()) > 0 && !analyzers.HasErrorHandling(workflow) {
		antiPatterns = append(antiPatterns, AntiPatternNoErrorHandling)
	}

	if len(analyzers.HTTPNodes(workflow)) > httpSequentialThreshold && !analyzers.HasParallelizationHint(workflow) {
		antiPatterns = append(antiPatterns, AntiPatternHTTPBurst)
	}

	if len(InvalidSchedules(workflow)) > 0 {
		antiPatterns = append(antiPatterns, AntiPatternInvalidSchedule)
	}

	return antiPatterns
}

func hasHardcodedURL(workflow *models.Workflow) bool {
	for _, node := range workflow.Nodes {
		found := false

		walkStrings(map[string]any(node.Parameters), func(_, value string) {
			lower := strings.ToLower(strings.TrimSpace(value))
			if isExpression(lower) {
				return
			}

			if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
				found = true
			}
		})

		if found {
			return true
		}
	}

	return false
}

// InvalidSchedules returns the schedule nodes whose literal cron expression
// cannot be parsed.
func InvalidSchedules(workflow *models.Workflow) []models.Node {
	var out []models.Node

	for _, node := range workflow.Nodes {
		if !node.IsSchedule() {
			continue
		}

		invalid := false

		walkStrings(map[string]any(node.Parameters), func(key, value string) {
			if !isScheduleField(key) || isExpression(value) {
				return
			}

			if _, err := scheduleParser.Parse(strings.TrimSpace(value)); err != nil {
				invalid = true
			}
		})

		if invalid {
			out = append(out, node)
		}
	}

	return out
}

func isScheduleField(key string) bool {
	for _, field := range scheduleFields {
		if strings.EqualFold(key, field) {
			return true
		}
	}

	return false
}

// isExpression reports whether the value is resolved at runtime.
func isExpression(value string) bool {
	return strings.HasPrefix(value, "=") || strings.Contains(value, "{{") || strings.Contains(value, "$")
}

// walkStrings calls fn for every string leaf with the key it is stored under.
// Slice elements inherit the key of their slice.
func walkStrings(value any, fn func(key, value string)) {
	walk("", value, fn)
}

func walk(key string, value any, fn func(key, value string)) {
	switch v := value.(type) {
	case string:
		fn(key, v)
	case map[string]any:
		for k, child := range v {
			walk(k, child, fn)
		}
	case models.Parameters:
		for k, child := range v {
			walk(k, child, fn)
		}
	case []any:
		for _, child := range v {
			walk(key, child, fn)
		}
	}
}
