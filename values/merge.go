package values

import (
	"fmt"
	"slices"
	"strings"

	treeconferrors "github.com/leodido/treeconf/errors"
)

// Precedence decides which side of a scalar merge survives.
//
// Fragments are always folded nearest-first, so the policy only matters when two layers define the same scalar key.
type Precedence int

const (
	// NearestWins keeps the accumulated scalar, that is the one closest to the starting directory.
	NearestWins Precedence = iota
	// FarthestWins lets every incoming scalar replace the accumulated one, so the layer closest to the root wins.
	FarthestWins
)

// PrecedenceIdentifiers maps every policy to its textual names.
var PrecedenceIdentifiers = map[Precedence][]string{
	NearestWins:  {"nearest"},
	FarthestWins: {"farthest"},
}

func (p Precedence) String() string {
	if ids, ok := PrecedenceIdentifiers[p]; ok {
		return ids[0]
	}

	return fmt.Sprintf("Precedence(%d)", int(p))
}

// ParsePrecedence converts a textual name into a Precedence.
func ParsePrecedence(s string) (Precedence, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for p, ids := range PrecedenceIdentifiers {
		for _, id := range ids {
			if id == needle {
				return p, nil
			}
		}
	}

	return NearestWins, fmt.Errorf("invalid precedence '%s' (one of: nearest, farthest)", s)
}

// Merge folds incoming into n in place. incoming is never modified, nor shared with n.
//
// Scalars follow the precedence policy, sequences are concatenated (n's elements first), mappings are merged key-wise.
// Any other pairing fails with a TypeMismatchError naming the dotted key path of the conflict.
// Provenance is cumulative: merging the same node twice keeps the values but duplicates the paths.
func (n *Node) Merge(incoming *Node, policy Precedence) error {
	if incoming == nil {
		return nil
	}

	return n.merge(incoming, policy, "")
}

func (n *Node) merge(incoming *Node, policy Precedence, keyPath string) error {
	switch {
	case n.kind == Scalar && incoming.kind == Scalar:
		if policy == FarthestWins {
			n.text = incoming.text
			n.provenance = append([]string{}, incoming.provenance...)
		}
	case n.kind == Sequence && incoming.kind == Sequence:
		n.items = append(n.items, incoming.items...)
		n.provenance = append(n.provenance, incoming.provenance...)
	case n.kind == Mapping && incoming.kind == Mapping:
		// Sorted traversal keeps the first reported conflict independent of map ordering
		for _, key := range incoming.Keys() {
			value := incoming.entries[key]
			current, ok := n.entries[key]
			if !ok {
				n.entries[key] = value.clone()

				continue
			}
			if err := current.merge(value, policy, joinKey(keyPath, key)); err != nil {
				return err
			}
		}
		n.provenance = append(n.provenance, incoming.provenance...)
	default:
		return treeconferrors.NewTypeMismatchError(n.kind.String(), incoming.kind.String(), keyPath, "")
	}

	return nil
}

func (n *Node) clone() *Node {
	c := &Node{
		kind:       n.kind,
		text:       n.text,
		items:      slices.Clone(n.items),
		provenance: slices.Clone(n.provenance),
	}
	if n.entries != nil {
		c.entries = make(map[string]*Node, len(n.entries))
		for key, value := range n.entries {
			c.entries[key] = value.clone()
		}
	}

	return c
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}
