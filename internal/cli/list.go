package internalcli

import (
	"github.com/spf13/cobra"
)

func (a *app) makeListC() (*cobra.Command, error) {
	opts := &ListOptions{}

	listC := &cobra.Command{
		Use:   "list",
		Short: "Print the merged configuration",
		Long:  "Print the merge of every fragment visible from the starting directory",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			commonOpts, err := a.prepare(c, opts)
			if err != nil {
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

			return render(c.OutOrStdout(), merged, opts.Format, opts.ShowOrigin)
		},
	}

	if err := opts.Attach(listC); err != nil {
		return nil, err
	}

	return listC, nil
}
