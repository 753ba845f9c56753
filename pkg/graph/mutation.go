package graph

import (
	"github.com/dukex/flowcheck/pkg/models"
	"github.com/google/uuid"
)

// NodePatch lists the node fields to overwrite. Nil fields are left untouched.
type NodePatch struct {
	Name           *string           `json:"name,omitempty"`
	Type           *string           `json:"type,omitempty"`
	TypeVersion    *int              `json:"typeVersion,omitempty"`
	Position       []float64         `json:"position,omitempty"`
	Parameters     models.Parameters `json:"parameters,omitempty"`
	Disabled       *bool             `json:"disabled,omitempty"`
	ContinueOnFail *bool             `json:"continueOnFail,omitempty"`
	RetryOnFail    *bool             `json:"retryOnFail,omitempty"`
	MaxTries       *int              `json:"maxTries,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
}

// ConnectionRef addresses one connection target entry.
type ConnectionRef struct {
	Source        string `json:"source"        validate:"required"`
	SourceChannel string `json:"sourceChannel" validate:"required"`
	Target        string `json:"target"        validate:"required"`
	TargetChannel string `json:"targetChannel" validate:"required"`
	TargetIndex   int    `json:"targetIndex"   validate:"gte=0"`
}

// NewNodeID returns a fresh random node identifier.
func NewNodeID() string {
	return uuid.New().String()
}

// AddNode returns a copy of the workflow with node appended.
func AddNode(workflow *models.Workflow, node models.Node) (*models.Workflow, error) {
	if workflow == nil {
		return nil, &MutationError{Op: "AddNode", NodeID: node.ID, Err: ErrNilWorkflow}
	}

	if workflow.HasNode(node.ID) {
		return nil, &MutationError{Op: "AddNode", WorkflowID: workflow.ID, NodeID: node.ID, Err: ErrDuplicateIdentifier}
	}

	out := workflow.Clone()
	out.Nodes = append(out.Nodes, node.Clone())

	return out, nil
}

// RemoveNode returns a copy of the workflow without the node and without any
// connection that starts or ends at it. Emptied target lists are kept as empty lists.
func RemoveNode(workflow *models.Workflow, nodeID string) *models.Workflow {
	if workflow == nil {
		return nil
	}

	out := workflow.Clone()

	nodes := make([]models.Node, 0, len(out.Nodes))

	for _, node := range out.Nodes {
		if node.ID != nodeID {
			nodes = append(nodes, node)
		}
	}

	out.Nodes = nodes

	delete(out.Connections, nodeID)

	for _, channels := range out.Connections {
		for channel, targets := range channels {
			kept := make([]models.ConnectionTarget, 0, len(targets))

			for _, target := range targets {
				if target.Node != nodeID {
					kept = append(kept, target)
				}
			}

			channels[channel] = kept
		}
	}

	return out
}

// AddConnection returns a copy of the workflow with a new target appended under
// connections[sourceID][sourceChannel]. Endpoints are not checked for existence.
func AddConnection(workflow *models.Workflow, sourceID, sourceChannel, targetID, targetChannel string, targetIndex int) *models.Workflow {
	if workflow == nil {
		return nil
	}

	out := workflow.Clone()

	channels, ok := out.Connections[sourceID]
	if !ok {
		channels = make(map[string][]models.ConnectionTarget)
		out.Connections[sourceID] = channels
	}

	channels[sourceChannel] = append(channels[sourceChannel], models.ConnectionTarget{
		Node:  targetID,
		Type:  targetChannel,
		Index: targetIndex,
	})

	return out
}

// RemoveConnection returns a copy of the workflow without the targets that match
// node, channel and index exactly. Removing a missing connection is a no-op.
func RemoveConnection(workflow *models.Workflow, sourceID, sourceChannel, targetID, targetChannel string, targetIndex int) *models.Workflow {
	if workflow == nil {
		return nil
	}

	out := workflow.Clone()

	targets, ok := out.Connections[sourceID][sourceChannel]
	if !ok {
		return out
	}

	kept := make([]models.ConnectionTarget, 0, len(targets))

	for _, target := range targets {
		if target.Node == targetID && target.Type == targetChannel && target.Index == targetIndex {
			continue
		}

		kept = append(kept, target)
	}

	out.Connections[sourceID][sourceChannel] = kept

	return out
}

// UpdateNode returns a copy of the workflow with patch merged into the named node.
// An unknown id returns the workflow unchanged together with ErrNodeNotFound.
func UpdateNode(workflow *models.Workflow, nodeID string, patch NodePatch) (*models.Workflow, error) {
	if workflow == nil {
		return nil, &MutationError{Op: "UpdateNode", NodeID: nodeID, Err: ErrNilWorkflow}
	}

	out := workflow.Clone()

	for i := range out.Nodes {
		if out.Nodes[i].ID != nodeID {
			continue
		}

		patch.apply(&out.Nodes[i])

		return out, nil
	}

	return workflow, &MutationError{Op: "UpdateNode", WorkflowID: workflow.ID, NodeID: nodeID, Err: ErrNodeNotFound}
}

func (p NodePatch) apply(node *models.Node) {
	if p.Name != nil {
		node.Name = *p.Name
	}

	if p.Type != nil {
		node.Type = *p.Type
	}

	if p.TypeVersion != nil {
		node.TypeVersion = *p.TypeVersion
	}

	if p.Position != nil {
		node.Position = append([]float64(nil), p.Position...)
	}

	if p.Parameters != nil {
		node.Parameters = p.Parameters.Clone()
	}

	if p.Disabled != nil {
		node.Disabled = *p.Disabled
	}

	if p.ContinueOnFail != nil {
		node.ContinueOnFail = *p.ContinueOnFail
	}

	if p.RetryOnFail != nil {
		node.RetryOnFail = *p.RetryOnFail
	}

	if p.MaxTries != nil {
		node.MaxTries = *p.MaxTries
	}

	if p.Notes != nil {
		node.Notes = *p.Notes
	}
}
