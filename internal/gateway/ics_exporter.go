package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/k-negishi/timely/internal/domain"
)

const icsProductID = "-//k-negishi//timely//JA"

// ICSExporter イベントを iCalendar 形式で書き出す EventExporter の実装
type ICSExporter struct {
	w     io.Writer
	clock func() time.Time
}

// NewICSExporter 書き出し先を指定して ICSExporter を作成
func NewICSExporter(w io.Writer) *ICSExporter {
	return &ICSExporter{w: w, clock: time.Now}
}

// Export 全イベントを 1 つの VCALENDAR として書き出し、書き出した件数を返す
func (e *ICSExporter) Export(ctx context.Context, events []domain.Event) (int, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	stamp := e.clock()
	exported := 0
	for _, event := range events {
		start, err := event.StartTime()
		if err != nil {
			slog.Warn("開始時刻を解析できないイベントをスキップしました", "id", event.ID, "error", err)
			continue
		}
		end, err := event.EndTime()
		if err != nil {
			slog.Warn("終了時刻を解析できないイベントをスキップしました", "id", event.ID, "error", err)
			continue
		}

		title := event.Title
		if title == "" {
			title = domain.DefaultEventTitle
		}

		vevent := cal.AddEvent(event.ID)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(start)
		vevent.SetEndAt(end)
		vevent.SetSummary(title)
		exported++
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, err := io.WriteString(e.w, cal.Serialize()); err != nil {
		return 0, fmt.Errorf("iCalendar の書き出しに失敗しました: %v", err)
	}
	return exported, nil
}
