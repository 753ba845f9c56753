package models

import "strings"

// TypeSuffix returns the trailing segment of a dotted node type, e.g.
// "n8n-nodes-base.httpRequest" -> "httpRequest".
func TypeSuffix(nodeType string) string {
	if i := strings.LastIndex(nodeType, "."); i >= 0 {
		return nodeType[i+1:]
	}

	return nodeType
}

func lowerSuffix(nodeType string) string {
	return strings.ToLower(TypeSuffix(nodeType))
}

func containsAny(s string, parts ...string) bool {
	for _, part := range parts {
		if strings.Contains(s, part) {
			return true
		}
	}

	return false
}

// IsHTTPLike reports whether the node issues outbound HTTP requests.
func (n Node) IsHTTPLike() bool {
	suffix := lowerSuffix(n.Type)

	return strings.Contains(strings.ToLower(n.Type), "httprequest") || suffix == "http"
}

// IsLoop reports whether the node iterates over its input.
func (n Node) IsLoop() bool {
	return containsAny(lowerSuffix(n.Type), "splitinbatches", "loop")
}

// IsConditional reports whether the node branches.
func (n Node) IsConditional() bool {
	switch lowerSuffix(n.Type) {
	case "if", "switch", "filter":
		return true
	default:
		return false
	}
}

// IsErrorTrigger reports whether the node starts an error handling branch.
func (n Node) IsErrorTrigger() bool {
	return strings.Contains(strings.ToLower(n.Type), "errortrigger")
}

// IsAnnotation reports whether the node is a sticky note or comment rather than work.
func (n Node) IsAnnotation() bool {
	return containsAny(lowerSuffix(n.Type), "stickynote", "comment")
}

// IsWebhook reports whether the node receives inbound HTTP calls.
func (n Node) IsWebhook() bool {
	suffix := lowerSuffix(n.Type)

	return strings.Contains(suffix, "webhook") && !strings.HasPrefix(suffix, "respond")
}

// IsSchedule reports whether the node fires on a timer.
func (n Node) IsSchedule() bool {
	return containsAny(lowerSuffix(n.Type), "schedule", "cron", "interval")
}

// IsTransform reports whether the node reshapes items.
func (n Node) IsTransform() bool {
	switch lowerSuffix(n.Type) {
	case "set", "code", "function", "functionitem", "itemlists", "merge", "aggregate", "splitout", "renamekeys":
		return true
	default:
		return false
	}
}

// IsDatastore reports whether the node reads from or writes to a data store.
func (n Node) IsDatastore() bool {
	return containsAny(lowerSuffix(n.Type),
		"postgres", "mysql", "mongodb", "redis", "googlesheets", "airtable",
		"microsoftsql", "snowflake", "supabase", "spreadsheetfile", "s3",
	)
}

// FunctionalNodes returns the nodes that do work, skipping annotations.
func (w *Workflow) FunctionalNodes() []Node {
	out := make([]Node, 0, len(w.Nodes))

	for _, node := range w.Nodes {
		if !node.IsAnnotation() {
			out = append(out, node)
		}
	}

	return out
}

// NotesCoverage returns the share of functional nodes carrying notes.
// A workflow without functional nodes counts as fully covered.
func (w *Workflow) NotesCoverage() float64 {
	functional := w.FunctionalNodes()
	if len(functional) == 0 {
		return 1
	}

	documented := 0

	for _, node := range functional {
		if node.HasNotes() {
			documented++
		}
	}

	return float64(documented) / float64(len(functional))
}

// HasDefaultName reports whether the display name embeds the node's own type name,
// e.g. "HTTP Request" on an httpRequest node.
func (n Node) HasDefaultName() bool {
	suffix := normalizeName(TypeSuffix(n.Type))
	if suffix == "" {
		return false
	}

	return strings.Contains(normalizeName(n.Name), suffix)
}

func normalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		default:
			return r
		}
	}, strings.ToLower(s))
}
