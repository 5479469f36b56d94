package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/k-negishi/timely/internal/domain"
)

// NewRenameCommand イベントのタイトルを変更するコマンド
func NewRenameCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change the title of an event",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			title := strings.Join(args[1:], " ")
			event, changed, err := a.tracker.RenameEvent(cmd.Context(), args[0], title)
			if errors.Is(err, domain.ErrEventNotFound) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("イベント %s が見つかりません", args[0]), err)
			}
			if err != nil {
				return WrapExitError(ExitFailure, "タイトルを変更できませんでした", err)
			}

			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Unchanged %s\n", event.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", event.ID, event.Title)
			return nil
		},
	}
}
