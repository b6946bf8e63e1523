package internalcli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leodido/treeconf"
	internaldebug "github.com/leodido/treeconf/internal/debug"
	internalusage "github.com/leodido/treeconf/internal/usage"
	"github.com/leodido/treeconf/session"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Option configures the command tree.
type Option func(*app)

type app struct {
	fs          afero.Fs
	logger      *zap.Logger
	probes      []session.Probe
	getwd       func() (string, error)
	exitOnDebug bool
}

// WithFs sets the filesystem configuration fragments and manifests are read from.
func WithFs(fs afero.Fs) Option {
	return func(a *app) {
		a.fs = fs
	}
}

// WithLogger replaces the logger built from the --loglevel flag.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = logger
	}
}

// WithProbes sets how session settings inspect the environment.
func WithProbes(probes ...session.Probe) Option {
	return func(a *app) {
		a.probes = append(a.probes, probes...)
	}
}

// WithGetwd sets the function returning the working directory (defaults to os.Getwd).
func WithGetwd(fn func() (string, error)) Option {
	return func(a *app) {
		a.getwd = fn
	}
}

// WithExitOnDebug makes commands return right after printing the debug information.
func WithExitOnDebug() Option {
	return func(a *app) {
		a.exitOnDebug = true
	}
}

// NewRootC creates the treeconf command tree.
func NewRootC(opts ...Option) (*cobra.Command, error) {
	a := &app{
		fs:    afero.NewOsFs(),
		getwd: os.Getwd,
	}
	for _, opt := range opts {
		opt(a)
	}

	commonOpts := &CommonOptions{}
	rootC := &cobra.Command{
		Use:               "treeconf",
		Short:             "Resolve hierarchical configuration",
		Long:              "Resolve configuration fragments scattered along the ancestors of a directory",
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootC.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		rootC := c.Root()
		if err := Unmarshal(rootC, rootC.PersistentFlags(), commonOpts); err != nil {
			return err
		}
		if err := commonOpts.Initialize(a.logger); err != nil {
			return err
		}
		internaldebug.UseDebug(rootC, c.OutOrStdout())
		c.SetContext(commonOpts.Context(c.Context()))

		return nil
	}
	if err := commonOpts.Attach(rootC); err != nil {
		return nil, err
	}

	getC, err := a.makeGetC()
	if err != nil {
		return nil, err
	}
	listC, err := a.makeListC()
	if err != nil {
		return nil, err
	}
	benchC, err := a.makeBenchC()
	if err != nil {
		return nil, err
	}
	rootC.AddCommand(getC, listC, benchC)
	internalusage.Setup(rootC)

	if err := internaldebug.Setup(rootC, a.exitOnDebug); err != nil {
		return nil, err
	}

	return rootC, nil
}

// prepare unmarshals the local options of c and returns the common options propagated by the root command.
func (a *app) prepare(c *cobra.Command, opts Options) (*CommonOptions, error) {
	if err := Unmarshal(c, c.LocalFlags(), opts); err != nil {
		return nil, err
	}
	commonOpts := &CommonOptions{}
	if err := commonOpts.FromContext(c.Context()); err != nil {
		return nil, err
	}
	internaldebug.UseDebug(c, c.OutOrStdout())

	return commonOpts, nil
}

func (a *app) resolver(o *CommonOptions) *treeconf.Resolver {
	return treeconf.New(
		treeconf.WithFs(a.fs),
		treeconf.WithDiscovery(o.Discovery()),
		treeconf.WithPrecedence(o.Precedence),
		treeconf.WithLogger(o.Logger()),
	)
}

// start returns the absolute directory the resolution starts from.
func (a *app) start(o *CommonOptions) (string, error) {
	if o.Cwd != "" {
		return filepath.Abs(o.Cwd)
	}
	cwd, err := a.getwd()
	if err != nil {
		return "", fmt.Errorf("couldn't get the working directory: %w", err)
	}

	return cwd, nil
}
