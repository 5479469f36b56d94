package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListOptions list コマンドのフラグ
type ListOptions struct {
	*RootOptions
	Format string
}

// NewListCommand 日ごとのイベント一覧を表示するコマンド
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recorded events grouped by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			a, err := openApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return renderDays(cmd.OutOrStdout(), opts.Format, a.tracker.Days(), a.location)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatText, "output format (text|json|yaml)")
	return cmd
}
