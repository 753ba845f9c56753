package web

import (
	"github.com/dukex/flowcheck/pkg/models"
)

// ConfidenceRequest is the body of a confidence calculation.
type ConfidenceRequest struct {
	Factors []models.ConfidenceFactor `json:"factors" validate:"required,min=1,dive"`
}

// CreateNodeRequest is the body for adding a node. An empty id is generated.
type CreateNodeRequest struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"           validate:"required"`
	Type           string            `json:"type"           validate:"required"`
	TypeVersion    int               `json:"typeVersion"    validate:"gte=0"`
	Position       []float64         `json:"position"       validate:"omitempty,len=2"`
	Parameters     models.Parameters `json:"parameters"`
	Disabled       bool              `json:"disabled"`
	ContinueOnFail bool              `json:"continueOnFail"`
	RetryOnFail    bool              `json:"retryOnFail"`
	MaxTries       int               `json:"maxTries"       validate:"gte=0"`
	Notes          string            `json:"notes"`
}

// Node converts the request into a node with the given id.
func (r CreateNodeRequest) Node(id string) models.Node {
	return models.Node{
		ID:             id,
		Name:           r.Name,
		Type:           r.Type,
		TypeVersion:    r.TypeVersion,
		Position:       r.Position,
		Parameters:     r.Parameters,
		Disabled:       r.Disabled,
		ContinueOnFail: r.ContinueOnFail,
		RetryOnFail:    r.RetryOnFail,
		MaxTries:       r.MaxTries,
		Notes:          r.Notes,
	}
}

// WorkflowSummary is the list view of a stored workflow.
type WorkflowSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	NodeCount int    `json:"node_count"`
}

func summarize(workflows []*models.Workflow) []WorkflowSummary {
	out := make([]WorkflowSummary, 0, len(workflows))

	for _, w := range workflows {
		out = append(out, WorkflowSummary{
			ID:        w.ID,
			Name:      w.Name,
			Active:    w.Active,
			NodeCount: len(w.Nodes),
		})
	}

	return out
}
