package treeconf

import (
	"fmt"
	"path/filepath"

	"github.com/leodido/treeconf/config"
	internalloader "github.com/leodido/treeconf/internal/loader"
	"github.com/leodido/treeconf/values"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Option configures a Resolver.
type Option func(*Resolver)

// Resolver answers configuration queries against the fragments found in a directory hierarchy.
//
// A Resolver holds no mutable state: it is safe for concurrent use across independent calls,
// and every call discovers, loads, and discards its own fragments.
type Resolver struct {
	fs      afero.Fs
	subpath string
	parser  internalloader.Parser
	policy  values.Precedence
	logger  *zap.Logger
}

// WithFs sets the filesystem fragments are discovered and read from (defaults to the OS filesystem).
func WithFs(fs afero.Fs) Option {
	return func(r *Resolver) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithDiscovery sets the directory and file name probed in every ancestor.
func WithDiscovery(opts config.Options) Option {
	return func(r *Resolver) {
		r.subpath = opts.Subpath()
	}
}

// WithParser forces a format parser, bypassing the choice by file extension.
func WithParser(parse internalloader.Parser) Option {
	return func(r *Resolver) {
		r.parser = parse
	}
}

// WithPrecedence sets the scalar precedence policy used by Aggregate.
func WithPrecedence(policy values.Precedence) Option {
	return func(r *Resolver) {
		r.policy = policy
	}
}

// WithLogger sets the logger receiving discovery and merge diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		fs:      afero.NewOsFs(),
		subpath: config.Options{}.Subpath(),
		policy:  values.NearestWins,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Precedence returns the scalar precedence policy of the resolver.
func (r *Resolver) Precedence() values.Precedence {
	return r.policy
}

// Subpath returns the relative path probed in every ancestor.
func (r *Resolver) Subpath() string {
	return r.subpath
}

func (r *Resolver) load(path string) (*internalloader.Fragment, error) {
	return internalloader.LoadWith(r.fs, path, r.parser)
}

func absDir(start string) (string, error) {
	if filepath.IsAbs(start) {
		return filepath.Clean(start), nil
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("couldn't resolve the starting directory %s: %w", start, err)
	}

	return abs, nil
}

// Lookup returns the value of key as defined by the nearest fragment, using the default resolver.
func Lookup(start, key string) (*values.Node, error) {
	return New().Lookup(start, key)
}

// Aggregate returns the merge of every fragment visible from start, using the default resolver.
func Aggregate(start string) (*values.Node, error) {
	return New().Aggregate(start)
}
