package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [jobs...]",
		Short: "Run the jobs of ancestry.yaml, or only the named ones",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return c.app.Watch(cmd.Context(), args, runOptions(cmd))
			}
			return c.app.Run(cmd.Context(), args, runOptions(cmd))
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Rerun jobs whenever their input files change")
	return cmd
}
