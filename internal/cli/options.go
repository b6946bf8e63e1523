package internalcli

import (
	"context"
	"fmt"

	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/leodido/treeconf/config"
	internalenv "github.com/leodido/treeconf/internal/env"
	internalusage "github.com/leodido/treeconf/internal/usage"
	"github.com/leodido/treeconf/values"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	_ ContextOptions       = (*CommonOptions)(nil)
	_ ValidatableOptions   = (*CommonOptions)(nil)
	_ TransformableOptions = (*CommonOptions)(nil)
	_ ValidatableOptions   = (*BenchOptions)(nil)
	_ TransformableOptions = (*BenchOptions)(nil)
)

// CommonOptions are the persistent options shared by every command.
type CommonOptions struct {
	LogLevel   zapcore.Level     `mapstructure:"loglevel"`
	Precedence values.Precedence `mapstructure:"precedence"`
	Dir        string            `mapstructure:"dir" mod:"trim" validate:"excludesall=/"`
	Name       string            `mapstructure:"name" mod:"trim" validate:"excludesall=/"`
	Cwd        string            `mapstructure:"cwd" mod:"trim"`

	// The logger is computed from LogLevel, it is not an option itself
	logger *zap.Logger
}

type commonOptionsKey struct{}

// Attach defines the persistent flags of the root command.
func (o *CommonOptions) Attach(c *cobra.Command) error {
	fs := c.PersistentFlags()
	enumVarP(fs, &o.LogLevel, "loglevel", "", "zapcore.Level", logLevels, "Logging level")
	enumVarP(fs, &o.Precedence, "precedence", "", "values.Precedence", values.PrecedenceIdentifiers, "Which fragment wins when scalars collide in the aggregate view")
	fs.StringVar(&o.Dir, "dir", config.DefaultDir, "Name of the directory probed in every ancestor")
	fs.StringVar(&o.Name, "name", config.DefaultName, "Name of the configuration fragment inside the probed directory")
	fs.StringVarP(&o.Cwd, "cwd", "C", "", "Directory to start from (defaults to the working directory)")

	for _, name := range []string{"loglevel", "precedence", "dir", "name", "cwd"} {
		if _, err := internalenv.Annotate(fs, name); err != nil {
			return err
		}
	}
	if err := internalusage.SetGroup(fs, "Discovery", "precedence", "dir", "name", "cwd"); err != nil {
		return err
	}
	if err := c.RegisterFlagCompletionFunc("loglevel", completeEnum(logLevels)); err != nil {
		return err
	}

	return c.RegisterFlagCompletionFunc("precedence", completeEnum(values.PrecedenceIdentifiers))
}

func (o *CommonOptions) Transform(ctx context.Context) error {
	return modifiers.New().Struct(ctx, o)
}

func (o *CommonOptions) Validate(ctx context.Context) []error {
	return validate(ctx, o)
}

// Context injects the options into ctx.
func (o *CommonOptions) Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, commonOptionsKey{}, o)
}

// FromContext retrieves the options from ctx.
func (o *CommonOptions) FromContext(ctx context.Context) error {
	value, ok := ctx.Value(commonOptionsKey{}).(*CommonOptions)
	if !ok {
		return fmt.Errorf("common options not found in context")
	}
	*o = *value

	return nil
}

// Initialize creates the logger.
//
// A non-nil base logger is kept and only restricted to the configured level.
func (o *CommonOptions) Initialize(base *zap.Logger) error {
	if base != nil {
		o.logger = base.WithOptions(zap.IncreaseLevel(o.LogLevel))

		return nil
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(o.LogLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zapcore.EncoderConfig{MessageKey: "M", LevelKey: "L"},
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}
	o.logger = logger

	return nil
}

// Logger returns the logger built by Initialize.
func (o *CommonOptions) Logger() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}

	return o.logger
}

// Discovery returns where fragments are looked up.
func (o *CommonOptions) Discovery() config.Options {
	return config.Options{Dir: o.Dir, Name: o.Name}
}

// GetOptions are the options of the get command.
type GetOptions struct {
	ShowOrigin bool `mapstructure:"show-origin"`
}

func (o *GetOptions) Attach(c *cobra.Command) error {
	c.Flags().BoolVar(&o.ShowOrigin, "show-origin", false, "Print the fragments the value comes from")

	return nil
}

// ListOptions are the options of the list command.
type ListOptions struct {
	Format     Format `mapstructure:"format"`
	ShowOrigin bool   `mapstructure:"show-origin"`
}

func (o *ListOptions) Attach(c *cobra.Command) error {
	enumVarP(c.Flags(), &o.Format, "format", "f", "format", FormatIdentifiers, "Output format")
	c.Flags().BoolVar(&o.ShowOrigin, "show-origin", false, "Print the fragments every value comes from (text format only)")
	if _, err := internalenv.Annotate(c.Flags(), "format"); err != nil {
		return err
	}
	if err := internalusage.SetGroup(c.Flags(), "Output", "format", "show-origin"); err != nil {
		return err
	}

	return c.RegisterFlagCompletionFunc("format", completeEnum(FormatIdentifiers))
}

// BenchOptions are the options of the bench command.
type BenchOptions struct {
	Jobs         int    `mapstructure:"jobs"`
	Target       string `mapstructure:"target" mod:"trim"`
	ManifestPath string `mapstructure:"manifest-path" mod:"trim" validate:"omitempty,endswith=.toml"`
	Verbose      int    `mapstructure:"verbose"`
}

func (o *BenchOptions) Attach(c *cobra.Command) error {
	fs := c.Flags()
	fs.IntVarP(&o.Jobs, "jobs", "j", 0, "The number of jobs to run in parallel (defaults to the number of CPUs)")
	fs.StringVar(&o.Target, "target", "", "Build for the target triple")
	fs.StringVar(&o.ManifestPath, "manifest-path", "", "Path to the manifest to build benchmarks for")
	fs.CountVarP(&o.Verbose, "verbose", "v", "Use verbose output")

	for _, name := range []string{"jobs", "target"} {
		if _, err := internalenv.Annotate(fs, name); err != nil {
			return err
		}
	}

	return internalusage.SetGroup(fs, "Build", "jobs", "target", "manifest-path")
}

func (o *BenchOptions) Transform(ctx context.Context) error {
	return modifiers.New().Struct(ctx, o)
}

func (o *BenchOptions) Validate(ctx context.Context) []error {
	return validate(ctx, o)
}

func validate(ctx context.Context, o any) []error {
	var errs []error
	err := validator.New().StructCtx(ctx, o)
	if err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrs {
				errs = append(errs, fieldErr)
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
