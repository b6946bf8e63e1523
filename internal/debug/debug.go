package internaldebug

import (
	"fmt"
	"io"

	internalenv "github.com/leodido/treeconf/internal/env"
	internalscope "github.com/leodido/treeconf/internal/scope"
	"github.com/spf13/cobra"
)

const (
	FlagName = "debug-options"
)

// Setup creates the --debug-options persistent flag on the root command.
//
// When exit is true, commands print the debug information and return without running.
func Setup(rootC *cobra.Command, exit bool) error {
	if rootC.Parent() != nil {
		return fmt.Errorf("debug setup must be called on the root command")
	}

	rootC.PersistentFlags().Bool(FlagName, false, "enable debug output for options")
	if _, err := internalenv.Annotate(rootC.PersistentFlags(), FlagName); err != nil {
		return err
	}

	if exit {
		wrap(rootC)
	}

	return nil
}

func wrap(c *cobra.Command) {
	if c.RunE != nil {
		originalRunE := c.RunE
		c.RunE = func(c *cobra.Command, args []string) error {
			if IsDebugActive(c) {
				return nil
			}

			return originalRunE(c, args)
		}
	}

	for _, sub := range c.Commands() {
		wrap(sub)
	}
}

// IsDebugActive checks if the debug option is set, either through the command-line flag or the environment variable.
func IsDebugActive(c *cobra.Command) bool {
	rootC := c.Root()

	if debugFlag := rootC.PersistentFlags().Lookup(FlagName); debugFlag != nil {
		if debugFlag.Changed {
			return true
		}
	} else {
		return false
	}

	// Check viper for other sources (eg, environment variable)
	rootV := internalscope.Get(rootC).Viper()

	return rootV.GetBool(FlagName)
}

// UseDebug prints the sources and the values of the options of c when debug is active.
func UseDebug(c *cobra.Command, w io.Writer) {
	if !IsDebugActive(c) {
		return
	}

	v := internalscope.Get(c).Viper()
	v.DebugTo(w)
	fmt.Fprintf(w, "Values:\n%#v\n", v.AllSettings())
}
