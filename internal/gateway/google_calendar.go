package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/k-negishi/timely/internal/domain"
)

// EventsWriter Google Calendar への書き込み
type EventsWriter interface {
	InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) error
	UpdateEvent(ctx context.Context, calendarID, eventID string, event *calendar.Event) error
}

// serviceEventsWriter calendar.Service を使った EventsWriter
type serviceEventsWriter struct {
	service *calendar.Service
}

func (w *serviceEventsWriter) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) error {
	_, err := w.service.Events.Insert(calendarID, event).Context(ctx).Do()
	return err
}

func (w *serviceEventsWriter) UpdateEvent(ctx context.Context, calendarID, eventID string, event *calendar.Event) error {
	_, err := w.service.Events.Update(calendarID, eventID, event).Context(ctx).Do()
	return err
}

// GoogleCalendarExporter 記録したイベントを Google Calendar に登録する EventExporter の実装
type GoogleCalendarExporter struct {
	writer     EventsWriter
	calendarID string
	timezone   *time.Location
}

// NewGoogleCalendarExporter サービスアカウント認証でエクスポーターを作成
func NewGoogleCalendarExporter(ctx context.Context, credentialsJSON []byte, calendarID string, timezone *time.Location) (*GoogleCalendarExporter, error) {
	// サービスアカウント認証でCalendar APIクライアントを作成
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("google認証情報の読み込みに失敗しました: %v", err)
	}

	service, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("google Calendar APIサービスの作成に失敗しました: %v", err)
	}

	return NewGoogleCalendarExporterWithWriter(&serviceEventsWriter{service: service}, calendarID, timezone), nil
}

// NewGoogleCalendarExporterWithWriter 書き込み先を指定してエクスポーターを作成
func NewGoogleCalendarExporterWithWriter(writer EventsWriter, calendarID string, timezone *time.Location) *GoogleCalendarExporter {
	if timezone == nil {
		timezone = time.UTC
	}
	return &GoogleCalendarExporter{
		writer:     writer,
		calendarID: calendarID,
		timezone:   timezone,
	}
}

// Export イベントを登録し、登録できた件数を返す
//
// 同じ ID が既に存在する場合は更新する。時刻を解析できないイベントはスキップする。
func (e *GoogleCalendarExporter) Export(ctx context.Context, events []domain.Event) (int, error) {
	exported := 0
	for _, event := range events {
		calendarEvent, err := e.convertToCalendarEvent(event)
		if err != nil {
			slog.Warn("イベントの変換をスキップしました", "id", event.ID, "error", err)
			continue
		}

		err = e.writer.InsertEvent(ctx, e.calendarID, calendarEvent)
		if isConflict(err) && calendarEvent.Id != "" {
			err = e.writer.UpdateEvent(ctx, e.calendarID, calendarEvent.Id, calendarEvent)
		}
		if err != nil {
			return exported, fmt.Errorf("カレンダーイベントの登録に失敗しました (id=%s): %v", event.ID, err)
		}
		exported++
	}
	return exported, nil
}

// convertToCalendarEvent ドメインエンティティを Google Calendar APIのイベントに変換
func (e *GoogleCalendarExporter) convertToCalendarEvent(event domain.Event) (*calendar.Event, error) {
	start, err := event.StartTime()
	if err != nil {
		return nil, fmt.Errorf("開始時刻の解析に失敗しました: %v", err)
	}
	end, err := event.EndTime()
	if err != nil {
		return nil, fmt.Errorf("終了時刻の解析に失敗しました: %v", err)
	}

	title := event.Title
	if title == "" {
		title = domain.DefaultEventTitle
	}

	return &calendar.Event{
		Id:      googleEventID(event.ID),
		Summary: title,
		Start: &calendar.EventDateTime{
			DateTime: start.In(e.timezone).Format(time.RFC3339),
			TimeZone: e.timezone.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.In(e.timezone).Format(time.RFC3339),
			TimeZone: e.timezone.String(),
		},
	}, nil
}

// googleEventID イベント ID を Google Calendar が受け付ける base32hex の ID に変換
// 変換できない場合は空文字（Google 側で採番される）
func googleEventID(id string) string {
	candidate := strings.ToLower(strings.ReplaceAll(id, "-", ""))
	if len(candidate) < 5 || len(candidate) > 1024 {
		return ""
	}
	for _, r := range candidate {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'v') {
			return ""
		}
	}
	return candidate
}

func isConflict(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}
