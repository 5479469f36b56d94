// Package calendar 記録済みイベントを暦日ごとにまとめる
package calendar

import (
	"sort"
	"time"

	"github.com/k-negishi/timely/internal/domain"
)

// InvalidDayKey 時刻を解析できないイベントを入れる日付キー
const InvalidDayKey = "invalid-date"

// DayGroups 日付キー（YYYY-MM-DD, UTC）ごとのイベント一覧
type DayGroups map[string][]domain.Event

// Day 日付順に並べた 1 日分のグループ
type Day struct {
	Key    string
	Date   time.Time // Key が InvalidDayKey の場合はゼロ値
	Events []domain.Event
}

// DayKey 時刻を UTC の暦日キーに変換
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// dayKeyOf タイムスタンプ文字列から日付キーを求める
func dayKeyOf(ts string) string {
	t, err := domain.ParseTimestamp(ts)
	if err != nil {
		return InvalidDayKey
	}
	return DayKey(t)
}

// GroupByDay イベントを開始日と終了日のグループに振り分ける
//
// 日をまたぐイベントは両方の日に同じ値で入る。グループ内の順序は入力順。
func GroupByDay(events []domain.Event) DayGroups {
	groups := make(DayGroups)
	for _, event := range events {
		startKey := dayKeyOf(event.DateStart)
		endKey := dayKeyOf(event.DateEnd)

		groups[startKey] = append(groups[startKey], event)
		if endKey != startKey {
			groups[endKey] = append(groups[endKey], event)
		}
	}
	return groups
}

// SortedDayKeys 日付キーを暦日として昇順に並べる
//
// キーは日付として解析して比較する。解析できないキーは末尾に文字列順で並ぶ。
func SortedDayKeys(groups DayGroups) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return lessDayKey(keys[i], keys[j])
	})
	return keys
}

func lessDayKey(a, b string) bool {
	da, errA := time.Parse(time.DateOnly, a)
	db, errB := time.Parse(time.DateOnly, b)
	switch {
	case errA != nil && errB != nil:
		return a < b
	case errA != nil:
		return false
	case errB != nil:
		return true
	}
	if da.Equal(db) {
		return a < b
	}
	return da.Before(db)
}

// Days イベントを日付順の Day 一覧に変換
func Days(events []domain.Event) []Day {
	groups := GroupByDay(events)
	keys := SortedDayKeys(groups)

	days := make([]Day, 0, len(keys))
	for _, key := range keys {
		day := Day{Key: key, Events: groups[key]}
		if date, err := time.Parse(time.DateOnly, key); err == nil {
			day.Date = date
		}
		days = append(days, day)
	}
	return days
}
