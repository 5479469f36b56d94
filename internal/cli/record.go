package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/k-negishi/timely/internal/domain"
	"github.com/k-negishi/timely/internal/recorder"
)

// NewRecordCommand ストップウォッチで作業時間を記録するコマンド
func NewRecordCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Start the stopwatch; press Enter (or Ctrl-C) to stop and save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return runRecord(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runRecord in から改行を読むか ctx がキャンセルされるまで記録し、イベントを保存する
func runRecord(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	startedAt, err := a.tracker.StartRecording()
	if err != nil {
		return WrapExitError(ExitFailure, "記録を開始できませんでした", err)
	}

	tickCtx, cancelTick := context.WithCancel(ctx)
	defer cancelTick()
	ticks, err := a.recorder.Tick(tickCtx)
	if err != nil {
		return WrapExitError(ExitFailure, "タイマーを開始できませんでした", err)
	}

	fmt.Fprintf(out, "Recording since %s. Press Enter to stop.\n", startedAt.In(a.location).Format("03:04:05 PM"))

	enter := make(chan struct{})
	go func() {
		// EOF でも停止する
		_, _ = bufio.NewReader(in).ReadString('\n')
		close(enter)
	}()

wait:
	for {
		select {
		case elapsed, ok := <-ticks:
			if !ok {
				ticks = nil
				continue
			}
			fmt.Fprintf(out, "\r%s", elapsed)
		case <-enter:
			break wait
		case <-ctx.Done():
			break wait
		}
	}

	// Ctrl-C でも記録は保存する
	event, err := a.tracker.StopRecording(context.WithoutCancel(ctx))
	if err != nil {
		return WrapExitError(ExitFailure, "イベントを保存できませんでした", err)
	}

	fmt.Fprintf(out, "\rSaved %s (%s) %s\n", event.ID, formatElapsed(event), event.Title)
	return nil
}

func formatElapsed(event domain.Event) string {
	start, err := event.StartTime()
	if err != nil {
		return "--:--:--"
	}
	end, err := event.EndTime()
	if err != nil {
		return "--:--:--"
	}
	return recorder.Split(end.Sub(start)).String()
}
