package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/k-negishi/timely/internal/gateway"
	"github.com/k-negishi/timely/internal/usecase"
)

// NewExportCommand イベントを外部カレンダーへ書き出すコマンド
func NewExportCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export recorded events to a calendar",
	}
	cmd.AddCommand(newExportICSCommand(opts))
	cmd.AddCommand(newExportGoogleCommand(opts))
	return cmd
}

func newExportICSCommand(opts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Write events as an iCalendar (.ics) file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return WrapExitError(ExitCommandError, "出力ファイルを作成できませんでした", err)
				}
				defer f.Close()
				w = f
			}

			exporter := usecase.NewExportEventsUseCase(a.repo, gateway.NewICSExporter(w))
			if _, err := exporter.Execute(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "iCalendar を書き出せませんでした", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportGoogleCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "google",
		Short: "Insert events into Google Calendar (CALENDAR_ID)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cfg.RequireGoogle(); err != nil {
				return WrapExitError(ExitCommandError, "Google Calendar の設定が不足しています", err)
			}
			credentials, err := opts.cfg.GoogleCredentialsJSON()
			if err != nil {
				return WrapExitError(ExitCommandError, "Google 認証情報が不正です", err)
			}

			a, err := openApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			calendarExporter, err := gateway.NewGoogleCalendarExporter(cmd.Context(), credentials, a.cfg.CalendarID, a.location)
			if err != nil {
				return WrapExitError(ExitCommandError, "Google Calendar に接続できませんでした", err)
			}

			n, err := usecase.NewExportEventsUseCase(a.repo, calendarExporter).Execute(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "Google Calendar へ書き出せませんでした", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", n, a.cfg.CalendarID)
			return nil
		},
	}
}
