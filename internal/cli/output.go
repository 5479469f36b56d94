package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/k-negishi/timely/internal/calendar"
	"github.com/k-negishi/timely/internal/domain"
)

// CLI の終了コード
const (
	ExitSuccess      = 0 // 正常終了
	ExitFailure      = 1 // 操作の失敗（保存・通知・書き出しなど）
	ExitCommandError = 2 // コマンドの誤り（引数・設定・ストレージを開けないなど）
)

// ExitError 終了コード付きのエラー
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError 終了コードとメッセージから ExitError を作成
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError 既存のエラーに終了コードを付与
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode エラーから終了コードを取り出す。ExitError でなければ ExitFailure
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// 出力形式
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats list が受け付ける出力形式
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

type dayOutput struct {
	Key    string         `json:"key" yaml:"key"`
	Events []domain.Event `json:"events" yaml:"events"`
}

type listOutput struct {
	Days []dayOutput `json:"days" yaml:"days"`
}

// renderDays 日ごとのイベント一覧を format で書き出す
func renderDays(w io.Writer, format string, days []calendar.Day, loc *time.Location) error {
	switch format {
	case FormatJSON, FormatYAML:
		out := listOutput{Days: make([]dayOutput, 0, len(days))}
		for _, day := range days {
			out.Days = append(out.Days, dayOutput{Key: day.Key, Events: day.Events})
		}
		if format == FormatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		renderDaysText(w, days, loc)
		return nil
	}
}

// renderDaysText 見出しは UTC の日付、時刻は loc で表示する
func renderDaysText(w io.Writer, days []calendar.Day, loc *time.Location) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No events recorded yet.")
		return
	}
	for i, day := range days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, dayHeading(day))
		for _, event := range day.Events {
			title := event.Title
			if title == "" {
				title = domain.DefaultEventTitle
			}
			fmt.Fprintf(w, "  %s  %s  (%s)\n", timeRange(event, loc), title, event.ID)
		}
	}
}

func dayHeading(day calendar.Day) string {
	if day.Key == calendar.InvalidDayKey {
		return "Invalid date"
	}
	return day.Date.UTC().Format("2 January")
}

func timeRange(event domain.Event, loc *time.Location) string {
	return clockTime(event.StartTime, loc) + " - " + clockTime(event.EndTime, loc)
}

func clockTime(parse func() (time.Time, error), loc *time.Location) string {
	t, err := parse()
	if err != nil {
		return "--:-- --"
	}
	return t.In(loc).Format("03:04 PM")
}
