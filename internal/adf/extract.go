// Package adf flattens Atlassian Document Format trees to plain text.
//
// JIRA returns descriptions and comment bodies either as a plain string
// (REST API v2) or as a recursive ADF document (v3). Extraction is lossy
// on purpose: formatting is discarded and only the linear text survives,
// in depth-first order.
package adf

import (
	"encoding/json"
	"strings"
)

// nodeKind classifies a decoded document value. Every value falls into
// exactly one of these; kindUnknown covers node shapes we don't recognize,
// which contribute no text instead of failing.
type nodeKind int

const (
	kindEmpty nodeKind = iota
	kindPlain
	kindTextLeaf
	kindComposite
	kindList
	kindUnknown
)

func classify(v any) nodeKind {
	switch node := v.(type) {
	case nil:
		return kindEmpty
	case string:
		return kindPlain
	case []any:
		return kindList
	case map[string]any:
		if t, ok := node["type"].(string); ok && t == "text" {
			return kindTextLeaf
		}
		if _, ok := node["content"].([]any); ok {
			return kindComposite
		}
		return kindUnknown
	default:
		return kindUnknown
	}
}

// Extract flattens a decoded document value to plain text. It is total:
// no input shape returns an error or panics, unknown shapes yield "".
func Extract(v any) string {
	switch classify(v) {
	case kindEmpty:
		return ""
	case kindPlain:
		return v.(string)
	case kindTextLeaf:
		text, _ := v.(map[string]any)["text"].(string)
		return text
	case kindComposite:
		return joinChildren(v.(map[string]any)["content"].([]any))
	case kindList:
		return joinChildren(v.([]any))
	default:
		return ""
	}
}

func joinChildren(children []any) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = Extract(child)
	}
	return strings.Join(parts, " ")
}

// ExtractRaw flattens a raw JSON field, which may be absent, a JSON string,
// or an ADF tree. Malformed JSON yields "" rather than an error; by the time
// a field reaches here the enclosing document already parsed, so this only
// guards against truncated or hand-built input.
func ExtractRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return Extract(v)
}
