package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/k-negishi/timely/internal/calendar"
)

// NotifySummaryUseCase 日次サマリー通知ユースケース
type NotifySummaryUseCase struct {
	repo     EventRepository
	notifier SummaryNotifier
}

// NewNotifySummaryUseCase ユースケースを生成
func NewNotifySummaryUseCase(repo EventRepository, notifier SummaryNotifier) *NotifySummaryUseCase {
	return &NotifySummaryUseCase{
		repo:     repo,
		notifier: notifier,
	}
}

// Execute day（UTC の暦日）に記録されたイベントを集計し通知する
func (uc *NotifySummaryUseCase) Execute(ctx context.Context, day time.Time) (skipped bool, err error) {
	events, err := uc.repo.Load(ctx)
	if err != nil {
		slog.Error("イベントの取得に失敗しました", "error", err)
		return false, err
	}

	dayEvents := calendar.GroupByDay(events)[calendar.DayKey(day)]

	// 記録がない日は通知しない
	if len(dayEvents) == 0 {
		return true, nil
	}

	if err := uc.notifier.SendDailySummary(ctx, day, dayEvents); err != nil {
		slog.Error("サマリー通知の送信に失敗しました", "error", err)
		return false, err
	}

	return false, nil
}
