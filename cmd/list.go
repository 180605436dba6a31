package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List captured bindings per script",
		Long:  listLongDescription,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()

			if err := ui.Start(ctx); err != nil {
				return err
			}
			defer ui.Close(ctx)

			w := newWorkflow()

			scripts, err := discoverScripts(w, args)
			if err != nil {
				return err
			}

			splits, err := w.BuildAll(ctx, scripts, viper.GetInt(buildParallelConfigKey))
			if err := ui.DisplayBindings(ctx, splits, err); err != nil {
				return err
			}

			ui.Wait(ctx)

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
