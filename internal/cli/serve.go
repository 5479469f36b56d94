package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/k-negishi/timely/internal/web"
)

// ServeOptions serve コマンドのフラグ
type ServeOptions struct {
	*RootOptions
	Listen string
}

// NewServeCommand HTTP API と日次サマリーの定期通知を起動するコマンド
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP API and send the daily summary on schedule",
		Long: `Serve the local HTTP API (events, recorder and /metrics).

When LINE credentials are configured, the daily summary is pushed on the
TIMELY_SUMMARY_CRON schedule (evaluated in TIMEZONE).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			scheduler, err := scheduleSummary(ctx, a)
			if err != nil {
				return WrapExitError(ExitCommandError, "サマリー通知のスケジュールが不正です", err)
			}
			if scheduler != nil {
				scheduler.Start()
				defer func() { <-scheduler.Stop().Done() }()
			}

			listen := opts.Listen
			if listen == "" {
				listen = a.cfg.Listen
			}
			server := web.NewServer(a.tracker, a.registry)
			if err := server.ListenAndServe(ctx, listen); err != nil {
				return WrapExitError(ExitFailure, "HTTP API の起動に失敗しました", err)
			}
			slog.Info("HTTP API を停止しました")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address; overrides TIMELY_LISTEN")
	return cmd
}

// scheduleSummary LINE の設定があれば日次サマリー通知を登録した cron を返す。なければ nil
func scheduleSummary(ctx context.Context, a *app) (*cron.Cron, error) {
	notify, err := a.summaryNotifier()
	if err != nil {
		slog.Info("LINE の設定がないため日次サマリー通知は無効です", "reason", err)
		return nil, nil
	}

	scheduler := cron.New(cron.WithLocation(a.location))
	_, err = scheduler.AddFunc(a.cfg.SummaryCron, func() {
		day := time.Now().UTC()
		skipped, err := notify.Execute(ctx, day)
		if err != nil {
			slog.Error("日次サマリー通知に失敗しました", "error", err)
			return
		}
		slog.Info("日次サマリー通知を実行しました", "day", day.Format(time.DateOnly), "skipped", skipped)
	})
	if err != nil {
		return nil, err
	}
	return scheduler, nil
}
