package treeconf

import (
	"errors"
	"fmt"

	treeconferrors "github.com/leodido/treeconf/errors"
	internalloader "github.com/leodido/treeconf/internal/loader"
	internalwalker "github.com/leodido/treeconf/internal/walker"
	"github.com/leodido/treeconf/values"
	"go.uber.org/zap"
)

// Lookup returns the top-level entry named key from the nearest fragment that defines it.
//
// Fragments that cannot be parsed or do not define key are skipped, and the walk moves on to the next ancestor.
// A fragment that cannot be read stops the walk with an IOError.
// The first definition found is returned as is, without merging it with farther fragments.
// When no ancestor defines key the error is a NotFoundError.
func (r *Resolver) Lookup(start, key string) (*values.Node, error) {
	dir, err := absDir(start)
	if err != nil {
		return nil, err
	}

	for candidate := range internalwalker.Candidates(r.fs, dir, r.subpath) {
		value, err := internalloader.Extract(r.fs, candidate, key, r.parser)
		switch {
		case err == nil:
			r.logger.Debug("resolved configuration key", zap.String("path", candidate), zap.String("key", key))

			return value, nil
		case errors.Is(err, treeconferrors.ErrIO):
			return nil, fmt.Errorf("couldn't look up %s from %s: %w", key, dir, err)
		case errors.Is(err, treeconferrors.ErrNotFound):
			r.logger.Debug("key not defined in configuration fragment", zap.String("path", candidate), zap.String("key", key))
		default:
			r.logger.Debug("skipping configuration fragment", zap.String("path", candidate), zap.String("key", key), zap.Error(err))
		}
	}

	return nil, treeconferrors.NewNotFoundError(key)
}
