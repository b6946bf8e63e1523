package internalconfig

import (
	"fmt"
	"strings"

	internalscope "github.com/leodido/treeconf/internal/scope"
	"github.com/leodido/treeconf/values"
	"github.com/spf13/cobra"
)

// Section returns the settings of c from the merged configuration.
//
// The settings of a command live in the table named after its path below the root, eg. [bench] or [registry.login].
// It returns nil when the path is missing or broken by a non-table value.
func Section(settings map[string]any, c *cobra.Command) map[string]any {
	subpathC := strings.Split(c.CommandPath(), " ")[1:]
	if len(subpathC) == 0 {
		return nil
	}

	currentLevel := settings
	for _, part := range subpathC {
		next, ok := currentLevel[part].(map[string]any)
		if !ok {
			return nil
		}
		currentLevel = next
	}

	return currentLevel
}

// Merge feeds the section of c found in the merged configuration to the viper instance of c.
//
// Values from the configuration rank below flags and environment variables.
func Merge(c *cobra.Command, merged *values.Node) error {
	settings, ok := merged.Interface().(map[string]any)
	if !ok {
		return fmt.Errorf("expected a table, but found %s", merged.Kind())
	}

	section := Section(settings, c)
	if len(section) == 0 {
		return nil
	}
	if err := internalscope.Get(c).Viper().MergeConfigMap(section); err != nil {
		return fmt.Errorf("couldn't merge the configuration of %s: %w", c.CommandPath(), err)
	}

	return nil
}
