package analyzers

import (
	"maps"
	"strings"

	"github.com/dukex/flowcheck/pkg/models"
)

var (
	sensitiveKeywords = []string{"password", "secret", "key", "token", "auth"}
	expressionMarkers = []string{"{{", "$"}
	iterationParams   = []string{"batchSize", "maxIterations", "iterations", "limit"}

	// credentialSelectors name which credential to use; they never hold a secret.
	credentialSelectors = []string{"authentication", "genericAuthType", "nodeCredentialType"}
)

// HasHardcodedSecret reports whether the node parameters mention a sensitive keyword
// without any expression reference, i.e. they look like a literal secret.
func HasHardcodedSecret(node models.Node) bool {
	params := maps.Clone(node.Parameters)
	for _, selector := range credentialSelectors {
		delete(params, selector)
	}

	text := strings.ToLower(params.AsText())
	if text == "" {
		return false
	}

	for _, marker := range expressionMarkers {
		if strings.Contains(text, marker) {
			return false
		}
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}

	return false
}

// LacksAuthentication reports whether an HTTP-like node sends unauthenticated requests.
func LacksAuthentication(node models.Node) bool {
	if !node.IsHTTPLike() {
		return false
	}

	value, ok := node.Parameters["authentication"]
	if !ok || value == nil {
		return true
	}

	s, isString := value.(string)

	return isString && (s == "" || strings.EqualFold(s, "none"))
}

// HasIterationLimit reports whether a loop node bounds its iterations.
func HasIterationLimit(node models.Node) bool {
	for _, param := range iterationParams {
		if node.Parameters.Has(param) {
			return true
		}
	}

	return false
}

// UnboundedLoops returns the loop nodes lacking an iteration limit.
func UnboundedLoops(workflow *models.Workflow) []models.Node {
	var out []models.Node

	for _, node := range workflow.Nodes {
		if node.IsLoop() && !HasIterationLimit(node) {
			out = append(out, node)
		}
	}

	return out
}

// HTTPNodes returns the HTTP-like nodes of the workflow.
func HTTPNodes(workflow *models.Workflow) []models.Node {
	var out []models.Node

	for _, node := range workflow.Nodes {
		if node.IsHTTPLike() {
			out = append(out, node)
		}
	}

	return out
}

// HasParallelizationHint reports whether the workflow declares any way of running
// its HTTP requests concurrently. It is a heuristic, not proof of sequential execution.
func HasParallelizationHint(workflow *models.Workflow) bool {
	if workflow.ParallelExecution() {
		return true
	}

	for _, node := range HTTPNodes(workflow) {
		if node.Parameters.Has("batching") {
			return true
		}
	}

	return false
}
