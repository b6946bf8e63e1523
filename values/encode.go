package values

import (
	"encoding/json"
	"slices"
)

// Interface returns the value as a plain Go tree without provenance.
//
// Scalars become string, sequences []string, mappings map[string]any.
func (n *Node) Interface() any {
	switch n.kind {
	case Scalar:
		return n.text
	case Sequence:
		return slices.Clone(n.items)
	case Mapping:
		out := make(map[string]any, len(n.entries))
		for key, child := range n.entries {
			out[key] = child.Interface()
		}

		return out
	default:
		return nil
	}
}

// MarshalJSON encodes only the value; provenance is for diagnostics and stays out of the output.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Interface())
}

var _ json.Marshaler = (*Node)(nil)
