package usecase

import (
	"context"
	"time"

	"github.com/k-negishi/timely/internal/domain"
)

// EventRepository イベントを永続化するポート
type EventRepository interface {
	Load(ctx context.Context) ([]domain.Event, error)
	Create(ctx context.Context, dateStart time.Time) (domain.Event, error)
	Delete(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
}

// Recorder 記録の開始・停止を管理するポート
type Recorder interface {
	Start() (time.Time, error)
	Stop() (time.Time, error)
}

// OperationObserver リポジトリ操作を計測するポート
type OperationObserver interface {
	ObserveOperation(op string, start time.Time, err error)
}

// SummaryNotifier 日次サマリーを送信するポート
type SummaryNotifier interface {
	SendDailySummary(ctx context.Context, day time.Time, events []domain.Event) error
}

// EventExporter イベントを外部カレンダーへ書き出すポート
type EventExporter interface {
	Export(ctx context.Context, events []domain.Event) (int, error)
}
