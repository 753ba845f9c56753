// Package models defines the workflow graph and the result types produced by the engine.
package models

// Well-known keys of the workflow settings bag.
const (
	SettingDescription       = "description"
	SettingErrorWorkflow     = "errorWorkflow"
	SettingParallelExecution = "parallelExecution"
)

// DefaultChannel is the channel used when a connection does not name one.
const DefaultChannel = "main"

// Workflow is a directed graph of nodes. Nodes keep insertion order, not execution order.
type Workflow struct {
	ID          string         `json:"id"          validate:"required"`
	Name        string         `json:"name"        validate:"required"`
	Nodes       []Node         `json:"nodes"`
	Connections Connections    `json:"connections"`
	Active      bool           `json:"active"`
	Settings    map[string]any `json:"settings,omitempty"`
}

// ConnectionTarget is one fan-out entry of an output channel.
type ConnectionTarget struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// Connections maps source node id -> output channel -> targets.
type Connections map[string]map[string][]ConnectionTarget

// Count returns the total number of connection target entries.
func (c Connections) Count() int {
	total := 0

	for _, channels := range c {
		for _, targets := range channels {
			total += len(targets)
		}
	}

	return total
}

// Clone returns a deep copy of the connection map.
func (c Connections) Clone() Connections {
	if c == nil {
		return Connections{}
	}

	out := make(Connections, len(c))

	for source, channels := range c {
		copied := make(map[string][]ConnectionTarget, len(channels))
		for channel, targets := range channels {
			copied[channel] = append(make([]ConnectionTarget, 0, len(targets)), targets...)
		}

		out[source] = copied
	}

	return out
}

// NodeByID returns the node with the given id.
func (w *Workflow) NodeByID(id string) (Node, bool) {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node, true
		}
	}

	return Node{}, false
}

// HasNode reports whether a node with the given id exists.
func (w *Workflow) HasNode(id string) bool {
	_, ok := w.NodeByID(id)

	return ok
}

// Description returns the workflow-level description stored in the settings bag.
func (w *Workflow) Description() string {
	return w.settingString(SettingDescription)
}

// ErrorWorkflow returns the id of the workflow configured to run on failure.
func (w *Workflow) ErrorWorkflow() string {
	return w.settingString(SettingErrorWorkflow)
}

// ParallelExecution reports whether the workflow opts into parallel execution.
func (w *Workflow) ParallelExecution() bool {
	switch v := w.Settings[SettingParallelExecution].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

func (w *Workflow) settingString(key string) string {
	if w.Settings == nil {
		return ""
	}

	s, _ := w.Settings[key].(string)

	return s
}

// Clone returns a deep copy so that mutations never leak into the original.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}

	nodes := make([]Node, len(w.Nodes))
	for i, node := range w.Nodes {
		nodes[i] = node.Clone()
	}

	var settings map[string]any
	if w.Settings != nil {
		settings, _ = deepCopy(w.Settings).(map[string]any)
	}

	return &Workflow{
		ID:          w.ID,
		Name:        w.Name,
		Nodes:       nodes,
		Connections: w.Connections.Clone(),
		Active:      w.Active,
		Settings:    settings,
	}
}

func deepCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = deepCopy(item)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopy(item)
		}

		return out
	default:
		return v
	}
}
