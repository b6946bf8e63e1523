package internalcli

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leodido/treeconf"
	treeconferrors "github.com/leodido/treeconf/errors"
	internalenv "github.com/leodido/treeconf/internal/env"
	internalscope "github.com/leodido/treeconf/internal/scope"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Unmarshal fills opts from the flags in fs and their environment variables, as seen by the viper instance of c.
//
// Options are transformed and then validated when they implement the respective contracts.
func Unmarshal(c *cobra.Command, fs *pflag.FlagSet, opts Options, hooks ...mapstructure.DecodeHookFunc) error {
	if err := internalenv.BindEnv(c, fs); err != nil {
		return fmt.Errorf("couldn't bind the options of %s: %w", c.Name(), err)
	}
	v := internalscope.Get(c).Viper()

	hooks = append(append(treeconf.DecodeHooks(), StringToFormatHookFunc()), hooks...)
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(hooks...))
	if err := v.Unmarshal(opts, decodeHook); err != nil {
		return fmt.Errorf("couldn't unmarshal the options of %s: %w", c.Name(), err)
	}

	if o, ok := opts.(TransformableOptions); ok {
		if err := o.Transform(c.Context()); err != nil {
			return fmt.Errorf("couldn't transform the options of %s: %w", c.Name(), err)
		}
	}

	if o, ok := opts.(ValidatableOptions); ok {
		if errs := o.Validate(c.Context()); len(errs) > 0 {
			return treeconferrors.NewValidationError(c.Name(), errs...)
		}
	}

	return nil
}
