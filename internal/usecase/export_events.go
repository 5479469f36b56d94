package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// ExportEventsUseCase 保存済みイベントを外部カレンダーへ書き出す
type ExportEventsUseCase struct {
	repo     EventRepository
	exporter EventExporter
}

// NewExportEventsUseCase ユースケースを生成
func NewExportEventsUseCase(repo EventRepository, exporter EventExporter) *ExportEventsUseCase {
	return &ExportEventsUseCase{repo: repo, exporter: exporter}
}

// Execute 書き出したイベント数を返す
func (uc *ExportEventsUseCase) Execute(ctx context.Context) (int, error) {
	events, err := uc.repo.Load(ctx)
	if err != nil {
		return 0, err
	}

	n, err := uc.exporter.Export(ctx, events)
	if err != nil {
		return n, fmt.Errorf("イベントの書き出しに失敗しました: %w", err)
	}
	slog.Info("イベントを書き出しました", "count", n, "total", len(events))
	return n, nil
}
