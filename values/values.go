package values

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	treeconferrors "github.com/leodido/treeconf/errors"
)

// Kind identifies the variant a Node holds.
type Kind int

const (
	// Scalar is a single string.
	Scalar Kind = iota
	// Sequence is an ordered list of strings.
	Sequence
	// Mapping is a set of uniquely keyed nodes.
	Mapping
)

// String returns the name used for the kind in diagnostics.
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "string"
	case Sequence:
		return "array"
	case Mapping:
		return "table"
	default:
		return "unknown"
	}
}

// Node is a configuration value together with the paths of the fragments that produced it.
//
// The variant is fixed at construction; only Merge changes the contents.
type Node struct {
	kind       Kind
	text       string
	items      []string
	entries    map[string]*Node
	provenance []string
}

// NewScalar creates a Scalar node.
func NewScalar(text string, provenance ...string) *Node {
	return &Node{
		kind:       Scalar,
		text:       text,
		provenance: slices.Clone(provenance),
	}
}

// NewSequence creates a Sequence node holding a copy of items.
func NewSequence(items []string, provenance ...string) *Node {
	return &Node{
		kind:       Sequence,
		items:      append([]string{}, items...),
		provenance: slices.Clone(provenance),
	}
}

// NewMapping creates a Mapping node.
//
// The entries map is adopted, not copied. A nil map yields an empty mapping.
func NewMapping(entries map[string]*Node, provenance ...string) *Node {
	if entries == nil {
		entries = make(map[string]*Node)
	}

	return &Node{
		kind:       Mapping,
		entries:    entries,
		provenance: slices.Clone(provenance),
	}
}

func (n *Node) Kind() Kind {
	return n.kind
}

// Provenance returns the source paths that contributed to the node (immutable).
func (n *Node) Provenance() []string {
	return slices.Clone(n.provenance)
}

// Scalar returns the text of a Scalar node.
func (n *Node) Scalar() (string, error) {
	if n.kind != Scalar {
		return "", treeconferrors.NewTypeMismatchError(Scalar.String(), n.kind.String(), "", "")
	}

	return n.text, nil
}

// Sequence returns a copy of the elements of a Sequence node.
func (n *Node) Sequence() ([]string, error) {
	if n.kind != Sequence {
		return nil, treeconferrors.NewTypeMismatchError(Sequence.String(), n.kind.String(), "", "")
	}

	return slices.Clone(n.items), nil
}

// Mapping returns a shallow copy of the entries of a Mapping node.
func (n *Node) Mapping() (map[string]*Node, error) {
	if n.kind != Mapping {
		return nil, treeconferrors.NewTypeMismatchError(Mapping.String(), n.kind.String(), "", "")
	}

	return maps.Clone(n.entries), nil
}

// Get returns the entry named key of a Mapping node.
//
// It reports false for missing keys and for non-mapping nodes.
func (n *Node) Get(key string) (*Node, bool) {
	if n.kind != Mapping {
		return nil, false
	}
	child, ok := n.entries[key]

	return child, ok
}

// Keys returns the sorted keys of a Mapping node.
func (n *Node) Keys() []string {
	if n.kind != Mapping {
		return nil
	}

	return slices.Sorted(maps.Keys(n.entries))
}

// Len returns the number of elements of a Sequence or entries of a Mapping.
func (n *Node) Len() int {
	switch n.kind {
	case Sequence:
		return len(n.items)
	case Mapping:
		return len(n.entries)
	default:
		return 0
	}
}

// String renders the value followed by the fragments it comes from.
func (n *Node) String() string {
	return fmt.Sprintf("%s (from [%s])", n.Display(), strings.Join(n.provenance, ", "))
}

// Display renders the value alone.
func (n *Node) Display() string {
	switch n.kind {
	case Scalar:
		return n.text
	case Sequence:
		return "[" + strings.Join(n.items, ", ") + "]"
	case Mapping:
		parts := make([]string, 0, len(n.entries))
		for _, k := range n.Keys() {
			parts = append(parts, k+": "+n.entries[k].Display())
		}

		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}
