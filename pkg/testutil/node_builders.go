// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/dukex/flowcheck/pkg/models"
	"github.com/google/uuid"
)

// Common node types used by tests.
const (
	TypeManualTrigger = "n8n-nodes-base.manualTrigger"
	TypeHTTPRequest   = "n8n-nodes-base.httpRequest"
	TypeSet           = "n8n-nodes-base.set"
	TypeCode          = "n8n-nodes-base.code"
	TypeIf            = "n8n-nodes-base.if"
	TypeLoop          = "n8n-nodes-base.splitInBatches"
	TypeErrorTrigger  = "n8n-nodes-base.errorTrigger"
	TypeWebhook       = "n8n-nodes-base.webhook"
	TypeSchedule      = "n8n-nodes-base.scheduleTrigger"
	TypeCron          = "n8n-nodes-base.cron"
	TypePostgres      = "n8n-nodes-base.postgres"
	TypeStickyNote    = "n8n-nodes-base.stickyNote"
)

// CreateTestNode creates a test Node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) models.Node {
	node := models.Node{
		ID:          uuid.New().String(),
		Name:        "Prepare Payload",
		Type:        TypeSet,
		TypeVersion: 1,
		Position:    []float64{100, 200},
		Parameters:  models.Parameters{"values": map[string]any{"greeting": "hello"}},
		Notes:       "Builds the outgoing payload",
	}

	for _, override := range overrides {
		override(&node)
	}

	return node
}

// WithID sets the node ID.
func WithID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

// WithName sets the node name.
func WithName(name string) func(*models.Node) {
	return func(n *models.Node) {
		n.Name = name
	}
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = nodeType
	}
}

// WithParameters sets the node parameters.
func WithParameters(params models.Parameters) func(*models.Node) {
	return func(n *models.Node) {
		n.Parameters = params
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.Node) {
	return func(n *models.Node) {
		n.Position = []float64{x, y}
	}
}

// WithNotes sets the node notes.
func WithNotes(notes string) func(*models.Node) {
	return func(n *models.Node) {
		n.Notes = notes
	}
}

// WithRetry enables retry on failure.
func WithRetry(maxTries int) func(*models.Node) {
	return func(n *models.Node) {
		n.RetryOnFail = true
		n.MaxTries = maxTries
	}
}

// WithContinueOnFail lets the workflow carry on when the node fails.
func WithContinueOnFail() func(*models.Node) {
	return func(n *models.Node) {
		n.ContinueOnFail = true
	}
}

// WithHTTPRequest configures the node as an authenticated HTTP request with retries.
func WithHTTPRequest(url string) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = TypeHTTPRequest
		n.Parameters = models.Parameters{
			"url":            url,
			"method":         "GET",
			"authentication": "predefinedCredentialType",
		}
		n.RetryOnFail = true
		n.MaxTries = 3
	}
}

// CreateTestWorkflow creates an empty, documented test workflow.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	workflow := &models.Workflow{
		ID:          uuid.New().String(),
		Name:        "Test Workflow",
		Nodes:       []models.Node{},
		Connections: models.Connections{},
		Settings: map[string]any{
			models.SettingDescription: "A workflow for testing",
		},
	}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

// WithNodes sets the workflow nodes.
func WithNodes(nodes ...models.Node) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Nodes = nodes
	}
}

// WithSetting sets one entry of the workflow settings bag.
func WithSetting(key string, value any) func(*models.Workflow) {
	return func(w *models.Workflow) {
		if w.Settings == nil {
			w.Settings = map[string]any{}
		}

		w.Settings[key] = value
	}
}

// Connect appends a main-channel connection from source to target.
func Connect(sourceID, targetID string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		if w.Connections == nil {
			w.Connections = models.Connections{}
		}

		if w.Connections[sourceID] == nil {
			w.Connections[sourceID] = map[string][]models.ConnectionTarget{}
		}

		w.Connections[sourceID][models.DefaultChannel] = append(
			w.Connections[sourceID][models.DefaultChannel],
			models.ConnectionTarget{Node: targetID, Type: models.DefaultChannel, Index: 0},
		)
	}
}

// CreateTestWorkflowWithNodes creates a two-node workflow A -> B.
func CreateTestWorkflowWithNodes() *models.Workflow {
	return CreateTestWorkflow(
		WithNodes(
			CreateTestNode(WithID("A"), WithName("Start"), WithType(TypeManualTrigger), WithParameters(nil)),
			CreateTestNode(WithID("B"), WithName("Prepare Payload")),
		),
		Connect("A", "B"),
	)
}
