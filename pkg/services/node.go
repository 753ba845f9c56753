package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dukex/flowcheck/pkg/engine"
	"github.com/dukex/flowcheck/pkg/graph"
	"github.com/dukex/flowcheck/pkg/models"
	"github.com/dukex/flowcheck/pkg/persistence"
)

// Node applies graph mutations to stored workflows. Every operation loads the
// workflow, mutates a copy and stores the copy. Operations on the same workflow
// are serialized within the process.
type Node struct {
	persistence persistence.Persistence
	engine      *engine.Engine
	locks       sync.Map // workflow id -> *sync.Mutex
}

// NewNode creates a new node service.
func NewNode(persistence persistence.Persistence, engine *engine.Engine) *Node {
	return &Node{
		persistence: persistence,
		engine:      engine,
	}
}

// CreateNode adds a node. An empty node id is generated.
func (n *Node) CreateNode(ctx context.Context, workflowID string, node models.Node) (*models.Workflow, error) {
	if node.ID == "" {
		node.ID = graph.NewNodeID()
	}

	return n.update(ctx, workflowID, func(w *models.Workflow) (*models.Workflow, error) {
		return n.engine.AddNode(ctx, w, node)
	})
}

// UpdateNode merges patch into a node.
func (n *Node) UpdateNode(ctx context.Context, workflowID, nodeID string, patch graph.NodePatch) (*models.Workflow, error) {
	return n.update(ctx, workflowID, func(w *models.Workflow) (*models.Workflow, error) {
		return n.engine.UpdateNode(ctx, w, nodeID, patch)
	})
}

// DeleteNode removes a node and its connections. Unknown nodes are reported.
func (n *Node) DeleteNode(ctx context.Context, workflowID, nodeID string) (*models.Workflow, error) {
	return n.update(ctx, workflowID, func(w *models.Workflow) (*models.Workflow, error) {
		if !w.HasNode(nodeID) {
			return nil, &graph.MutationError{Op: "RemoveNode", WorkflowID: w.ID, NodeID: nodeID, Err: graph.ErrNodeNotFound}
		}

		return n.engine.RemoveNode(ctx, w, nodeID), nil
	})
}

// CreateConnection adds a connection target.
func (n *Node) CreateConnection(ctx context.Context, workflowID string, ref graph.ConnectionRef) (*models.Workflow, error) {
	return n.update(ctx, workflowID, func(w *models.Workflow) (*models.Workflow, error) {
		return n.engine.AddConnection(ctx, w, ref), nil
	})
}

// DeleteConnection removes a connection target. Missing connections are a no-op.
func (n *Node) DeleteConnection(ctx context.Context, workflowID string, ref graph.ConnectionRef) (*models.Workflow, error) {
	return n.update(ctx, workflowID, func(w *models.Workflow) (*models.Workflow, error) {
		return n.engine.RemoveConnection(ctx, w, ref), nil
	})
}

func (n *Node) update(
	ctx context.Context,
	workflowID string,
	fn func(w *models.Workflow) (*models.Workflow, error),
) (*models.Workflow, error) {
	unlock := n.lock(workflowID)
	defer unlock()

	workflow, err := n.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	updated, err := fn(workflow)
	if err != nil {
		return nil, err
	}

	if err := n.persistence.SaveWorkflow(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return updated, nil
}

func (n *Node) lock(workflowID string) func() {
	value, _ := n.locks.LoadOrStore(workflowID, &sync.Mutex{})
	mu, _ := value.(*sync.Mutex)

	mu.Lock()

	return mu.Unlock
}
