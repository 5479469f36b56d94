package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NotifyOptions notify コマンドのフラグ
type NotifyOptions struct {
	*RootOptions
	Date string
}

// NewNotifyCommand 日次サマリーを今すぐ LINE に送るコマンド
func NewNotifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NotifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Push the daily summary to LINE now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(opts.Date, time.Now())
			if err != nil {
				return WrapExitError(ExitCommandError, "日付が不正です", err)
			}

			a, err := openApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			notify, err := a.summaryNotifier()
			if err != nil {
				return WrapExitError(ExitCommandError, "LINE の設定が不足しています", err)
			}

			skipped, err := notify.Execute(cmd.Context(), day)
			if err != nil {
				return WrapExitError(ExitFailure, "日次サマリーを送信できませんでした", err)
			}
			if skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "No events on %s; nothing sent\n", day.Format(time.DateOnly))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent summary for %s\n", day.Format(time.DateOnly))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "UTC day to summarise (YYYY-MM-DD, default today)")
	return cmd
}
