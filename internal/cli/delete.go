package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand イベントを削除するコマンド
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.tracker.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return WrapExitError(ExitFailure, "イベントを削除できませんでした", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
