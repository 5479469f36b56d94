package domain

import (
	"fmt"
	"time"
)

// DefaultEventTitle 記録停止時に作成されるイベントのタイトル
const DefaultEventTitle = "Untitled Event"

// timestampLayout 永続化するタイムスタンプの形式（UTC・ミリ秒精度）
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Event 記録された作業セッションのドメインエンティティ
//
// DateStart/DateEnd は保存形式のまま ISO-8601 文字列で保持する。
type Event struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	DateStart string `json:"dateStart" yaml:"dateStart"`
	DateEnd   string `json:"dateEnd" yaml:"dateEnd"`
}

// StartTime 開始時刻を解析
func (e Event) StartTime() (time.Time, error) {
	return ParseTimestamp(e.DateStart)
}

// EndTime 終了時刻を解析
func (e Event) EndTime() (time.Time, error) {
	return ParseTimestamp(e.DateEnd)
}

// Duration 記録時間を返す。時刻が解析できない場合は 0
func (e Event) Duration() time.Duration {
	start, err := e.StartTime()
	if err != nil {
		return 0
	}
	end, err := e.EndTime()
	if err != nil {
		return 0
	}
	return end.Sub(start)
}

// Validate 開始時刻と終了時刻の整合性を確認
func (e Event) Validate() error {
	start, err := e.StartTime()
	if err != nil {
		return fmt.Errorf("%w: 開始時刻の解析に失敗しました: %v", ErrInvalidRange, err)
	}
	end, err := e.EndTime()
	if err != nil {
		return fmt.Errorf("%w: 終了時刻の解析に失敗しました: %v", ErrInvalidRange, err)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: 終了時刻 %s が開始時刻 %s より前です", ErrInvalidRange, e.DateEnd, e.DateStart)
	}
	return nil
}

// CheckRange 両方の時刻が解析できる場合のみ前後関係を確認する
//
// 解析できない時刻を含むイベントはそのまま保存でき、一覧では invalid-date に表示される。
func (e Event) CheckRange() error {
	start, startErr := e.StartTime()
	end, endErr := e.EndTime()
	if startErr != nil || endErr != nil {
		return nil
	}
	if end.Before(start) {
		return fmt.Errorf("%w: 終了時刻 %s が開始時刻 %s より前です", ErrInvalidRange, e.DateEnd, e.DateStart)
	}
	return nil
}

// FormatTimestamp 時刻を保存形式の文字列に変換
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp 保存形式の文字列を時刻に変換
//
// RFC3339（小数秒あり・なし）と日付のみの形式を受け付ける。
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("タイムスタンプ %q を解析できません", s)
	}
	return t, nil
}
