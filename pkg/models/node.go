package models

import (
	"encoding/json"
	"strings"
)

// Node is a single typed unit of work in a workflow.
type Node struct {
	ID             string     `json:"id"                       validate:"required"`
	Name           string     `json:"name"                     validate:"required"`
	Type           string     `json:"type"                     validate:"required"`
	TypeVersion    int        `json:"typeVersion"`
	Position       []float64  `json:"position"`
	Parameters     Parameters `json:"parameters,omitempty"`
	Disabled       bool       `json:"disabled,omitempty"`
	ContinueOnFail bool       `json:"continueOnFail,omitempty"`
	RetryOnFail    bool       `json:"retryOnFail,omitempty"`
	MaxTries       int        `json:"maxTries,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	if n.Position != nil {
		out.Position = append([]float64(nil), n.Position...)
	}

	out.Parameters = n.Parameters.Clone()

	return out
}

// HasNotes reports whether the node carries non-blank notes.
func (n Node) HasNotes() bool {
	return strings.TrimSpace(n.Notes) != ""
}

// Parameters is the untyped parameter bag of a node. It is never parsed into a schema;
// analyzers inspect it through AsText and Has.
type Parameters map[string]any

// AsText returns the parameters serialized as JSON with sorted keys.
func (p Parameters) AsText() string {
	if len(p) == 0 {
		return ""
	}

	b, err := json.Marshal(map[string]any(p))
	if err != nil {
		return ""
	}

	return string(b)
}

// Has reports whether a key exists at any depth, compared case-insensitively.
func (p Parameters) Has(key string) bool {
	return hasKey(map[string]any(p), strings.ToLower(key))
}

// String returns the top-level string value stored under key.
func (p Parameters) String(key string) (string, bool) {
	v, ok := p[key].(string)

	return v, ok
}

// Clone returns a deep copy of the bag.
func (p Parameters) Clone() Parameters {
	if p == nil {
		return nil
	}

	out, _ := deepCopy(map[string]any(p)).(map[string]any)

	return out
}

func hasKey(value any, key string) bool {
	switch v := value.(type) {
	case map[string]any:
		for k, item := range v {
			if strings.ToLower(k) == key || hasKey(item, key) {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if hasKey(item, key) {
				return true
			}
		}
	}

	return false
}
