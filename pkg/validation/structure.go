// Package validation reports structural integrity problems of workflow graphs.
package validation

import (
	"fmt"
	"math"

	"github.com/dukex/flowcheck/pkg/models"
)

// StructureResult lists every structural problem found in one pass.
type StructureResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func newResult(errs []string) StructureResult {
	if errs == nil {
		errs = []string{}
	}

	return StructureResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidateStructure checks the workflow shape and the connection endpoints.
// Problems are accumulated, never returned as errors. Duplicate node ids are
// a naming concern and are not reported here.
func ValidateStructure(workflow *models.Workflow) StructureResult {
	if workflow == nil {
		return newResult([]string{"Workflow is required"})
	}

	var errs []string

	if workflow.ID == "" {
		errs = append(errs, "Workflow ID is required")
	}

	if workflow.Name == "" {
		errs = append(errs, "Workflow name is required")
	}

	for i, node := range workflow.Nodes {
		errs = append(errs, validateNode(i, node)...)
	}

	nodeIDs := make(map[string]bool, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		nodeIDs[node.ID] = true
	}

	for _, source := range sortedKeys(workflow.Connections) {
		if !nodeIDs[source] {
			errs = append(errs, fmt.Sprintf("Connection source node %s not found", source))
		}

		channels := workflow.Connections[source]
		for _, channel := range sortedKeys(channels) {
			if channel == "" {
				errs = append(errs, fmt.Sprintf("Connection from %s has an empty output channel", source))
			}

			for i, target := range channels[channel] {
				errs = append(errs, validateTarget(source, channel, i, target, nodeIDs)...)
			}
		}
	}

	return newResult(errs)
}

func validateNode(index int, node models.Node) []string {
	var errs []string

	label := node.ID
	if label == "" {
		label = fmt.Sprintf("at index %d", index)
		errs = append(errs, fmt.Sprintf("Node at index %d is missing an ID", index))
	}

	if node.Name == "" {
		errs = append(errs, fmt.Sprintf("Node %s is missing a name", label))
	}

	if node.Type == "" {
		errs = append(errs, fmt.Sprintf("Node %s is missing a type", label))
	}

	if !validPosition(node.Position) {
		errs = append(errs, fmt.Sprintf("Node %s position must be a pair of numbers", label))
	}

	return errs
}

func validPosition(position []float64) bool {
	if len(position) != 2 {
		return false
	}

	for _, v := range position {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

func validateTarget(source, channel string, index int, target models.ConnectionTarget, nodeIDs map[string]bool) []string {
	var errs []string

	where := fmt.Sprintf("%s (%s[%d])", source, channel, index)

	switch {
	case target.Node == "":
		errs = append(errs, fmt.Sprintf("Connection from %s is missing a target node", where))
	case !nodeIDs[target.Node]:
		errs = append(errs, fmt.Sprintf("Connection target node %s not found", target.Node))
	}

	if target.Type == "" {
		errs = append(errs, fmt.Sprintf("Connection from %s is missing a type", where))
	}

	if target.Index < 0 {
		errs = append(errs, fmt.Sprintf("Connection from %s has a negative index %d", where, target.Index))
	}

	return errs
}
