package internalcli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) makeGetC() (*cobra.Command, error) {
	opts := &GetOptions{}

	getC := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of a key",
		Long:  "Print the value of a top-level key as defined by the nearest fragment defining it",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			commonOpts, err := a.prepare(c, opts)
			if err != nil {
				return err
			}
			start, err := a.start(commonOpts)
			if err != nil {
				return err
			}

			value, err := a.resolver(commonOpts).Lookup(start, args[0])
			if err != nil {
				return err
			}
			if opts.ShowOrigin {
				fmt.Fprintln(c.OutOrStdout(), value.String())
			} else {
				fmt.Fprintln(c.OutOrStdout(), value.Display())
			}

			return nil
		},
	}

	if err := opts.Attach(getC); err != nil {
		return nil, err
	}

	return getC, nil
}
