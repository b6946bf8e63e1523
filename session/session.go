package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	treeconferrors "github.com/leodido/treeconf/errors"
)

// Options holds the caller-supplied build parameters.
type Options struct {
	// Jobs is the requested parallelism; nil means one job per CPU.
	Jobs   *int   `validate:"omitempty,min=1"`
	Target string `mod:"trim"`
}

// Probe overrides how the environment is inspected.
type Probe func(*probes)

type probes struct {
	homeDir func() (string, error)
	numCPU  func() int
}

// WithHomeDir sets the function used to find the home directory (defaults to os.UserHomeDir).
func WithHomeDir(fn func() (string, error)) Probe {
	return func(p *probes) {
		p.homeDir = fn
	}
}

// WithNumCPU sets the function used to count the CPUs (defaults to runtime.NumCPU).
func WithNumCPU(fn func() int) Probe {
	return func(p *probes) {
		p.numCPU = fn
	}
}

// Settings is the resolved record of build parameters for one invocation.
//
// Everything is fixed at construction except linker and archiver, which can be set once.
type Settings struct {
	home   string
	jobs   int
	target string

	mu          sync.RWMutex
	linker      string
	linkerSet   bool
	archiver    string
	archiverSet bool
}

// New builds the settings from opts and the environment.
//
// It fails when jobs is explicitly lower than 1 or when the home directory cannot be determined.
func New(ctx context.Context, opts Options, probe ...Probe) (*Settings, error) {
	p := &probes{
		homeDir: os.UserHomeDir,
		numCPU:  runtime.NumCPU,
	}
	for _, fn := range probe {
		fn(p)
	}

	if err := opts.Transform(ctx); err != nil {
		return nil, fmt.Errorf("couldn't transform session options: %w", err)
	}
	if errs := opts.Validate(ctx); len(errs) > 0 {
		return nil, treeconferrors.NewSettingsError(errs...)
	}

	home, err := p.homeDir()
	if err != nil {
		return nil, treeconferrors.NewSettingsError(fmt.Errorf("couldn't find your home directory: this probably means that $HOME was not set: %w", err))
	}
	if strings.TrimSpace(home) == "" {
		return nil, treeconferrors.NewSettingsError(errors.New("couldn't find your home directory: this probably means that $HOME was not set"))
	}

	jobs := p.numCPU()
	if opts.Jobs != nil {
		jobs = *opts.Jobs
	}
	if jobs < 1 {
		jobs = 1
	}

	return &Settings{
		home:   home,
		jobs:   jobs,
		target: opts.Target,
	}, nil
}

// Transform normalizes the options before validation.
func (o *Options) Transform(ctx context.Context) error {
	return modifiers.New().Struct(ctx, o)
}

// Validate checks the options, returning one error per violated constraint.
func (o *Options) Validate(ctx context.Context) []error {
	var errs []error
	err := validator.New().StructCtx(ctx, o)
	if err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrs {
				errs = append(errs, describe(fieldErr))
			}
		} else {
			errs = append(errs, fmt.Errorf("validator.Struct() failed unexpectedly: %w", err))
		}
	}
	if len(errs) == 0 {
		return nil
	}

	return errs
}

func describe(fieldErr validator.FieldError) error {
	name := strings.ToLower(fieldErr.Field())
	switch fieldErr.Tag() {
	case "min":
		return fmt.Errorf("%s must be at least %s", name, fieldErr.Param())
	default:
		return fieldErr
	}
}

func (s *Settings) Home() string {
	return s.home
}

func (s *Settings) Jobs() int {
	return s.jobs
}

// Target returns the target triple, reporting false when building for the host.
func (s *Settings) Target() (string, bool) {
	return s.target, s.target != ""
}

// GitDBPath is where bare git databases of dependencies are kept.
func (s *Settings) GitDBPath() string {
	return filepath.Join(s.home, ".treeconf", "git", "db")
}

// GitCheckoutPath is where checkouts of git dependencies are kept.
func (s *Settings) GitCheckoutPath() string {
	return filepath.Join(s.home, ".treeconf", "git", "checkouts")
}

// SetLinker sets the linker override; it fails with ErrAlreadySet on a second call.
func (s *Settings) SetLinker(linker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.linkerSet {
		return treeconferrors.NewAlreadySetError("linker", s.linker)
	}
	s.linker = linker
	s.linkerSet = true

	return nil
}

// SetArchiver sets the archiver override; it fails with ErrAlreadySet on a second call.
func (s *Settings) SetArchiver(archiver string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.archiverSet {
		return treeconferrors.NewAlreadySetError("archiver", s.archiver)
	}
	s.archiver = archiver
	s.archiverSet = true

	return nil
}

func (s *Settings) Linker() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.linker, s.linkerSet
}

func (s *Settings) Archiver() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.archiver, s.archiverSet
}
