package validation

import (
	"math"
	"testing"

	"github.com/dukex/flowcheck/pkg/models"
	"github.com/dukex/flowcheck/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructure_ValidWorkflow(t *testing.T) {
	result := ValidateStructure(testutil.CreateTestWorkflowWithNodes())

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateStructure_ZeroNodes(t *testing.T) {
	workflow := &models.Workflow{ID: "wf-1", Name: "Empty"}

	result := ValidateStructure(workflow)

	assert.True(t, result.Valid)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestValidateStructure_NilWorkflow(t *testing.T) {
	result := ValidateStructure(nil)

	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Workflow is required"}, result.Errors)
}

func TestValidateStructure_MissingWorkflowFields(t *testing.T) {
	result := ValidateStructure(&models.Workflow{})

	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Workflow ID is required", "Workflow name is required"}, result.Errors)
}

func TestValidateStructure_NodeFields(t *testing.T) {
	tests := []struct {
		name     string
		node     models.Node
		expected []string
	}{
		{
			name:     "missing id",
			node:     models.Node{Name: "n", Type: "t", Position: []float64{0, 0}},
			expected: []string{"Node at index 0 is missing an ID"},
		},
		{
			name:     "missing name",
			node:     models.Node{ID: "n1", Type: "t", Position: []float64{0, 0}},
			expected: []string{"Node n1 is missing a name"},
		},
		{
			name:     "missing type",
			node:     models.Node{ID: "n1", Name: "n", Position: []float64{0, 0}},
			expected: []string{"Node n1 is missing a type"},
		},
		{
			name:     "short position",
			node:     models.Node{ID: "n1", Name: "n", Type: "t", Position: []float64{1}},
			expected: []string{"Node n1 position must be a pair of numbers"},
		},
		{
			name:     "non finite position",
			node:     models.Node{ID: "n1", Name: "n", Type: "t", Position: []float64{math.NaN(), 1}},
			expected: []string{"Node n1 position must be a pair of numbers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workflow := &models.Workflow{ID: "wf", Name: "Workflow", Nodes: []models.Node{tt.node}}

			result := ValidateStructure(workflow)

			assert.False(t, result.Valid)
			assert.Equal(t, tt.expected, result.Errors)
		})
	}
}

func TestValidateStructure_UnknownReferences(t *testing.T) {
	workflow := testutil.CreateTestWorkflowWithNodes()
	workflow.Connections["ghost"] = map[string][]models.ConnectionTarget{
		"main": {{Node: "A", Type: "main", Index: 0}},
	}
	workflow.Connections["A"]["main"] = append(workflow.Connections["A"]["main"],
		models.ConnectionTarget{Node: "missing", Type: "main", Index: 0},
		models.ConnectionTarget{Node: "B", Type: "", Index: -1},
	)

	result := ValidateStructure(workflow)

	require.False(t, result.Valid)
	assert.Equal(t, []string{
		"Connection target node missing not found",
		"Connection from A (main[2]) is missing a type",
		"Connection from A (main[2]) has a negative index -1",
		"Connection source node ghost not found",
	}, result.Errors)
}

func TestValidateStructure_AccumulatesEverything(t *testing.T) {
	workflow := &models.Workflow{
		Nodes: []models.Node{{ID: "n1"}},
		Connections: models.Connections{
			"n1": {"": {{Node: "", Type: "main"}}},
		},
	}

	result := ValidateStructure(workflow)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 7)
	assert.Contains(t, result.Errors, "Connection from n1 has an empty output channel")
	assert.Contains(t, result.Errors, "Connection from n1 ([0]) is missing a target node")
}

func TestValidateStructure_DuplicateIDsAreNotStructural(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithNodes(
		testutil.CreateTestNode(testutil.WithID("same")),
		testutil.CreateTestNode(testutil.WithID("same")),
	))

	result := ValidateStructure(workflow)

	assert.True(t, result.Valid)
}
