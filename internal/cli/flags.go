package internalcli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/constraints"
)

var logLevels = map[zapcore.Level][]string{
	zapcore.DebugLevel:  {"debug"},
	zapcore.InfoLevel:   {"info"},
	zapcore.WarnLevel:   {"warn"},
	zapcore.ErrorLevel:  {"error"},
	zapcore.DPanicLevel: {"dpanic"},
	zapcore.PanicLevel:  {"panic"},
	zapcore.FatalLevel:  {"fatal"},
}

// identifiers returns the first identifier of every enum value, sorted by value.
func identifiers[E constraints.Integer](ids map[E][]string) []string {
	keys := slices.Sorted(maps.Keys(ids))
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, ids[k][0])
	}

	return names
}

// enumVarP defines a case-insensitive enum flag listing its accepted values in the usage.
func enumVarP[E constraints.Integer](fs *pflag.FlagSet, ref *E, name, short, typename string, ids map[E][]string, descr string) {
	addendum := fmt.Sprintf(" {%s}", strings.Join(identifiers(ids), ","))
	enumFlag := enumflag.New(ref, typename, ids, enumflag.EnumCaseInsensitive)
	fs.VarP(enumFlag, name, short, descr+addendum)
}

// completeEnum completes the flag with the identifiers of the enum.
func completeEnum[E constraints.Integer](ids map[E][]string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return identifiers(ids), cobra.ShellCompDirectiveNoFileComp
	}
}
