package internalusage

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	FlagAnnotation = "___leodido_treeconf_flaggroups"

	localGroupID  = "<local>"
	globalGroupID = "Global"
)

// SetGroup puts the flags named names of fs in the given help group.
func SetGroup(fs *pflag.FlagSet, group string, names ...string) error {
	for _, name := range names {
		if err := fs.SetAnnotation(name, FlagAnnotation, []string{group}); err != nil {
			return err
		}
	}

	return nil
}

// Groups organizes the flags of c by their group annotation.
//
// Ungrouped local flags go to a default local group, inherited flags to the Global group.
func Groups(c *cobra.Command) map[string]*pflag.FlagSet {
	groups := make(map[string]*pflag.FlagSet)
	addTo := func(f *pflag.Flag, groupID string) {
		if groups[groupID] == nil {
			groups[groupID] = pflag.NewFlagSet(c.Name(), pflag.ContinueOnError)
		}
		groups[groupID].AddFlag(f)
	}

	c.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if annotations, ok := f.Annotations[FlagAnnotation]; ok && len(annotations) > 0 {
			addTo(f, annotations[0])

			return
		}
		addTo(f, localGroupID)
	})
	c.InheritedFlags().VisitAll(func(f *pflag.Flag) {
		addTo(f, globalGroupID)
	})

	return groups
}

func flagUsages(f *pflag.FlagSet) string {
	return strings.TrimRight(f.FlagUsages(), " \n") + "\n"
}

// Setup sets a usage function printing flags by group on c and all its subcommands.
func Setup(c *cobra.Command) {
	c.SetUsageFunc(usage)
	for _, sub := range c.Commands() {
		Setup(sub)
	}
}

func usage(c *cobra.Command) error {
	var b strings.Builder

	b.WriteString("Usage:")
	if c.Runnable() {
		b.WriteString("\n  " + c.UseLine())
	}
	if c.HasAvailableSubCommands() {
		b.WriteString("\n  " + c.CommandPath() + " [command]")
	}
	b.WriteString("\n")

	if c.HasAvailableSubCommands() {
		b.WriteString("\nAvailable Commands:\n")
		for _, sub := range c.Commands() {
			if !sub.IsAvailableCommand() && sub.Name() != "help" {
				continue
			}
			b.WriteString(fmt.Sprintf("  %-*s %s\n", c.NamePadding(), sub.Name(), sub.Short))
		}
	}

	groups := Groups(c)
	if local, ok := groups[localGroupID]; ok {
		b.WriteString("\nFlags:\n" + flagUsages(local))
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		if name != localGroupID && name != globalGroupID {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		b.WriteString(fmt.Sprintf("\n%s Flags:\n", name) + flagUsages(groups[name]))
	}
	if global, ok := groups[globalGroupID]; ok {
		b.WriteString("\nGlobal Flags:\n" + flagUsages(global))
	}

	if c.HasAvailableSubCommands() {
		b.WriteString(fmt.Sprintf("\nUse \"%s [command] --help\" for more information about a command.\n", c.CommandPath()))
	}

	_, err := c.OutOrStderr().Write([]byte(b.String()))

	return err
}
