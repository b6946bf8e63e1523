package treeconf

import (
	"errors"
	"fmt"

	treeconferrors "github.com/leodido/treeconf/errors"
	internalwalker "github.com/leodido/treeconf/internal/walker"
	"github.com/leodido/treeconf/values"
	"go.uber.org/zap"
)

// Aggregate folds every fragment visible from start into a single mapping.
//
// Fragments are merged nearest-first into an initially empty mapping, following the resolver precedence for scalars.
// The first fragment that fails to load or to merge aborts the call: no partial result is returned.
func (r *Resolver) Aggregate(start string) (*values.Node, error) {
	dir, err := absDir(start)
	if err != nil {
		return nil, err
	}

	acc := values.NewMapping(nil)
	for candidate := range internalwalker.Candidates(r.fs, dir, r.subpath) {
		frag, err := r.load(candidate)
		if err != nil {
			return nil, fmt.Errorf("couldn't aggregate configuration for %s: %w", dir, err)
		}
		if err := acc.Merge(frag.Root, r.policy); err != nil {
			var tmErr *treeconferrors.TypeMismatchError
			if errors.As(err, &tmErr) && tmErr.Path == "" {
				tmErr.Path = candidate
			}

			return nil, fmt.Errorf("couldn't aggregate configuration for %s: %w", dir, err)
		}
		r.logger.Debug("merged configuration fragment", zap.String("path", candidate), zap.Stringer("precedence", r.policy))
	}

	return acc, nil
}
