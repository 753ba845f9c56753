// Package graph provides copy-on-write mutations of workflow graphs.
package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateIdentifier indicates a node id collides with an existing node.
	ErrDuplicateIdentifier = errors.New("duplicate node identifier")

	// ErrNodeNotFound indicates the referenced node does not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNilWorkflow indicates a mutation was requested on a nil workflow.
	ErrNilWorkflow = errors.New("workflow cannot be nil")
)

// MutationError wraps mutation failures with the operation and node involved.
type MutationError struct {
	Op         string // Operation being performed (e.g. "AddNode")
	WorkflowID string
	NodeID     string
	Err        error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s failed for node %s in workflow %s: %v", e.Op, e.NodeID, e.WorkflowID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

func (e *MutationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsDuplicateIdentifier checks if an error indicates a node id collision.
func IsDuplicateIdentifier(err error) bool {
	return errors.Is(err, ErrDuplicateIdentifier)
}

// IsNodeNotFound checks if an error indicates a missing node.
func IsNodeNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound)
}
