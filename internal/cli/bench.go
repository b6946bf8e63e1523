package internalcli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/leodido/treeconf"
	internalconfig "github.com/leodido/treeconf/internal/config"
	internalscope "github.com/leodido/treeconf/internal/scope"
	internalwalker "github.com/leodido/treeconf/internal/walker"
	"github.com/leodido/treeconf/session"
	"github.com/leodido/treeconf/values"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ManifestName is the file marking the root of a package.
const ManifestName = "Treeconf.toml"

// targetConfig is the per-target section of the configuration.
type targetConfig struct {
	Linker string `toml:"linker"`
	Ar     string `toml:"ar"`
}

func (a *app) makeBenchC() (*cobra.Command, error) {
	opts := &BenchOptions{}

	benchC := &cobra.Command{
		Use:   "bench [options] [--] [<args>...]",
		Short: "Execute all benchmarks of a local package",
		Long: `Execute all benchmarks of a local package

All of the trailing arguments are passed to the benchmark binaries generated
for filtering benchmarks and generally providing options configuring how they
run.`,
		RunE: func(c *cobra.Command, args []string) error {
			commonOpts := &CommonOptions{}
			if err := commonOpts.FromContext(c.Context()); err != nil {
				return err
			}
			start, err := a.start(commonOpts)
			if err != nil {
				return err
			}
			merged, err := a.resolver(commonOpts).Aggregate(start)
			if err != nil {
				return err
			}

			// The [bench] table of the configuration provides defaults for the flags
			if err := internalconfig.Merge(c, merged); err != nil {
				return err
			}
			if _, err := a.prepare(c, opts); err != nil {
				return err
			}

			var jobs *int
			if internalscope.Get(c).Viper().IsSet("jobs") {
				jobs = &opts.Jobs
			}
			settings, err := session.New(c.Context(), session.Options{Jobs: jobs, Target: opts.Target}, a.probes...)
			if err != nil {
				return err
			}
			manifest, err := a.findManifest(start, opts.ManifestPath)
			if err != nil {
				return err
			}
			if triple, ok := settings.Target(); ok {
				if err := applyTarget(settings, merged, triple); err != nil {
					return err
				}
			}
			commonOpts.Logger().Debug("planned benchmark session", zap.String("manifest", manifest), zap.Int("jobs", settings.Jobs()))

			return printPlan(c.OutOrStdout(), manifest, settings, merged, args, opts.Verbose)
		},
	}

	if err := opts.Attach(benchC); err != nil {
		return nil, err
	}

	return benchC, nil
}

// findManifest returns the explicit manifest path, or the manifest of the nearest ancestor of start.
func (a *app) findManifest(start, manifestPath string) (string, error) {
	if manifestPath != "" {
		if !filepath.IsAbs(manifestPath) {
			manifestPath = filepath.Join(start, manifestPath)
		}
		exists, err := afero.Exists(a.fs, manifestPath)
		if err != nil {
			return "", fmt.Errorf("couldn't check manifest path %s: %w", manifestPath, err)
		}
		if !exists {
			return "", fmt.Errorf("manifest path `%s` does not exist", manifestPath)
		}

		return manifestPath, nil
	}

	for candidate := range internalwalker.Candidates(a.fs, start, ManifestName) {
		return candidate, nil
	}

	return "", fmt.Errorf("could not find `%s` in `%s` or any parent directory", ManifestName, start)
}

// applyTarget sets the linker and archiver configured for the target triple, if any.
func applyTarget(settings *session.Settings, merged *values.Node, triple string) error {
	targets, ok := merged.Get("target")
	if !ok {
		return nil
	}
	section, ok := targets.Get(triple)
	if !ok {
		return nil
	}

	var cfg targetConfig
	if err := treeconf.Decode(section, &cfg); err != nil {
		return fmt.Errorf("couldn't read the configuration of target %s: %w", triple, err)
	}
	if cfg.Linker != "" {
		if err := settings.SetLinker(cfg.Linker); err != nil {
			return err
		}
	}
	if cfg.Ar != "" {
		if err := settings.SetArchiver(cfg.Ar); err != nil {
			return err
		}
	}

	return nil
}

func orDefault(value string, ok bool) string {
	if !ok {
		return "default"
	}

	return value
}

func printPlan(w io.Writer, manifest string, settings *session.Settings, merged *values.Node, args []string, verbose int) error {
	target, ok := settings.Target()
	if !ok {
		target = "host"
	}

	lines := [][2]string{
		{"manifest", manifest},
		{"jobs", fmt.Sprint(settings.Jobs())},
		{"target", target},
		{"linker", orDefault(settings.Linker())},
		{"archiver", orDefault(settings.Archiver())},
		{"git db", settings.GitDBPath()},
		{"checkouts", settings.GitCheckoutPath()},
		{"args", strings.Join(args, " ")},
	}
	if verbose > 0 {
		for _, path := range merged.Provenance() {
			lines = append(lines, [2]string{"config", path})
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", line[0], line[1]); err != nil {
			return err
		}
	}

	return nil
}
