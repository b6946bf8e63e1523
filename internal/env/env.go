package internalenv

import (
	"strings"

	internalscope "github.com/leodido/treeconf/internal/scope"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	Prefix = "TREECONF_"
	EnvSep = "_"
	envRep = strings.NewReplacer("-", EnvSep, ".", EnvSep)
)

const (
	FlagAnnotation = "___leodido_treeconf_flagenvs"
)

func NormEnv(str string) string {
	return envRep.Replace(strings.ToUpper(str))
}

// Annotate marks the flag name of fs as readable from its prefixed environment variable.
//
// It returns the name of the environment variable.
func Annotate(fs *pflag.FlagSet, name string) (string, error) {
	env := Prefix + NormEnv(name)
	if err := fs.SetAnnotation(name, FlagAnnotation, []string{env}); err != nil {
		return "", err
	}

	return env, nil
}

// BindEnv binds the annotated flags of fs into the viper instance of c.
func BindEnv(c *cobra.Command, fs *pflag.FlagSet) error {
	s := internalscope.Get(c)
	v := s.Viper()

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil {
			err = bindErr

			return
		}
		if envs, defineEnv := f.Annotations[FlagAnnotation]; defineEnv {
			// Only bind if we haven't already bound this env var for this command
			if !s.IsEnvBound(f.Name) {
				s.SetBound(f.Name)
				input := []string{f.Name}
				input = append(input, envs...)
				err = v.BindEnv(input...)
			}
		}
	})

	return err
}
