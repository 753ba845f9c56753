package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkflow() *Workflow {
	return &Workflow{
		ID:   "wf-1",
		Name: "Order Sync",
		Nodes: []Node{
			{ID: "a", Name: "Start", Type: "n8n-nodes-base.manualTrigger", Position: []float64{0, 0}},
			{
				ID:         "b",
				Name:       "Fetch Orders",
				Type:       "n8n-nodes-base.httpRequest",
				Position:   []float64{200, 0},
				Parameters: Parameters{"options": map[string]any{"headers": []any{"x"}}},
			},
		},
		Connections: Connections{
			"a": {DefaultChannel: {{Node: "b", Type: DefaultChannel, Index: 0}}},
		},
		Settings: map[string]any{SettingDescription: "Pulls orders", "tags": []any{"sync"}},
	}
}

func TestWorkflow_Validation(t *testing.T) {
	validate := validator.New()

	require.NoError(t, validate.Struct(newWorkflow()))

	err := validate.Struct(&Workflow{ID: "wf"})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors

	require.ErrorAs(t, err, &validationErrors)
	assert.Equal(t, "Name", validationErrors[0].Field())
	assert.Equal(t, "required", validationErrors[0].Tag())
}

func TestWorkflow_CloneIsDeep(t *testing.T) {
	original := newWorkflow()
	clone := original.Clone()

	require.Equal(t, original, clone)

	clone.Nodes[1].Position[0] = 999
	clone.Nodes[1].Parameters["options"].(map[string]any)["timeout"] = 30
	clone.Connections["a"][DefaultChannel][0].Node = "z"
	clone.Settings["tags"].([]any)[0] = "changed"

	assert.InDelta(t, 200.0, original.Nodes[1].Position[0], 0.001)
	assert.NotContains(t, original.Nodes[1].Parameters["options"], "timeout")
	assert.Equal(t, "b", original.Connections["a"][DefaultChannel][0].Node)
	assert.Equal(t, "sync", original.Settings["tags"].([]any)[0])

	var nilWorkflow *Workflow
	assert.Nil(t, nilWorkflow.Clone())
	assert.NotNil(t, (&Workflow{}).Clone().Connections)
}

func TestWorkflow_Lookups(t *testing.T) {
	w := newWorkflow()

	node, ok := w.NodeByID("b")
	require.True(t, ok)
	assert.Equal(t, "Fetch Orders", node.Name)

	assert.True(t, w.HasNode("a"))
	assert.False(t, w.HasNode("missing"))
	assert.Equal(t, 1, w.Connections.Count())
	assert.Equal(t, "Pulls orders", w.Description())
	assert.Empty(t, w.ErrorWorkflow())
	assert.False(t, w.ParallelExecution())

	w.Settings[SettingParallelExecution] = "true"
	assert.True(t, w.ParallelExecution())
}

func TestParameters(t *testing.T) {
	params := Parameters{
		"url":     "https://example.com",
		"options": map[string]any{"Authentication": "header"},
	}

	assert.True(t, params.Has("authentication"))
	assert.False(t, params.Has("password"))
	assert.Equal(t, `{"options":{"Authentication":"header"},"url":"https://example.com"}`, params.AsText())
	assert.Empty(t, Parameters(nil).AsText())

	url, ok := params.String("url")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", url)

	_, ok = params.String("options")
	assert.False(t, ok)
}

func TestNode_TypeClassification(t *testing.T) {
	tests := []struct {
		nodeType string
		check    func(Node) bool
		expected bool
	}{
		{"n8n-nodes-base.httpRequest", Node.IsHTTPLike, true},
		{"n8n-nodes-base.set", Node.IsHTTPLike, false},
		{"n8n-nodes-base.splitInBatches", Node.IsLoop, true},
		{"n8n-nodes-base.if", Node.IsConditional, true},
		{"n8n-nodes-base.switch", Node.IsConditional, true},
		{"n8n-nodes-base.errorTrigger", Node.IsErrorTrigger, true},
		{"n8n-nodes-base.stickyNote", Node.IsAnnotation, true},
		{"n8n-nodes-base.webhook", Node.IsWebhook, true},
		{"n8n-nodes-base.respondToWebhook", Node.IsWebhook, false},
		{"n8n-nodes-base.scheduleTrigger", Node.IsSchedule, true},
		{"n8n-nodes-base.code", Node.IsTransform, true},
		{"n8n-nodes-base.postgres", Node.IsDatastore, true},
	}

	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.check(Node{Type: tt.nodeType}))
		})
	}
}

func TestTypeSuffix(t *testing.T) {
	assert.Equal(t, "httpRequest", TypeSuffix("n8n-nodes-base.httpRequest"))
	assert.Equal(t, "custom", TypeSuffix("custom"))
}

func TestNode_HasDefaultName(t *testing.T) {
	assert.True(t, Node{Name: "HTTP Request1", Type: "n8n-nodes-base.httpRequest"}.HasDefaultName())
	assert.False(t, Node{Name: "Fetch Orders", Type: "n8n-nodes-base.httpRequest"}.HasDefaultName())
}

func TestWorkflow_NotesCoverage(t *testing.T) {
	w := &Workflow{Nodes: []Node{
		{ID: "a", Type: "n8n-nodes-base.set", Notes: "documented"},
		{ID: "b", Type: "n8n-nodes-base.set", Notes: "  "},
		{ID: "c", Type: "n8n-nodes-base.stickyNote"},
	}}

	assert.InDelta(t, 0.5, w.NotesCoverage(), 0.0001)
	assert.Len(t, w.FunctionalNodes(), 2)
	assert.InDelta(t, 1.0, (&Workflow{}).NotesCoverage(), 0.0001)
}
