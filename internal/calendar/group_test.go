package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-negishi/timely/internal/domain"
)

func newEvent(id, start, end string) domain.Event {
	return domain.Event{ID: id, Title: "作業 " + id, DateStart: start, DateEnd: end}
}

// --- DayKey テスト ---

func TestDayKey(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"UTC", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), "2024-01-05"},
		{"ゼロ埋め", time.Date(987, 3, 9, 0, 0, 0, 0, time.UTC), "0987-03-09"},
		{"JSTはUTCに変換される", time.Date(2024, 1, 2, 8, 0, 0, 0, time.FixedZone("JST", 9*60*60)), "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayKey(tt.input))
		})
	}
}

// --- GroupByDay テスト ---

func TestGroupByDay_Empty(t *testing.T) {
	groups := GroupByDay(nil)
	assert.Empty(t, groups)
	assert.Empty(t, SortedDayKeys(groups))
}

func TestGroupByDay_SpansMidnight(t *testing.T) {
	event := newEvent("1", "2024-01-01T23:00:00Z", "2024-01-02T01:00:00Z")

	groups := GroupByDay([]domain.Event{event})

	assert.Equal(t, DayGroups{
		"2024-01-01": {event},
		"2024-01-02": {event},
	}, groups)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, SortedDayKeys(groups))
}

func TestGroupByDay_SameDay(t *testing.T) {
	event := newEvent("1", "2024-03-10T09:00:00.000Z", "2024-03-10T17:30:00.000Z")

	groups := GroupByDay([]domain.Event{event})

	require.Len(t, groups, 1)
	assert.Equal(t, []domain.Event{event}, groups["2024-03-10"])
}

func TestGroupByDay_PreservesInputOrder(t *testing.T) {
	a := newEvent("a", "2024-03-10T15:00:00Z", "2024-03-10T16:00:00Z")
	b := newEvent("b", "2024-03-10T09:00:00Z", "2024-03-10T10:00:00Z")
	c := newEvent("c", "2024-03-09T23:00:00Z", "2024-03-10T00:30:00Z")

	groups := GroupByDay([]domain.Event{a, b, c})

	assert.Equal(t, []domain.Event{a, b, c}, groups["2024-03-10"])
	assert.Equal(t, []domain.Event{c}, groups["2024-03-09"])
}

func TestGroupByDay_KeysMatchDistinctDays(t *testing.T) {
	events := []domain.Event{
		newEvent("1", "2024-02-28T22:00:00Z", "2024-02-29T02:00:00Z"),
		newEvent("2", "2024-03-01T08:00:00Z", "2024-03-01T09:00:00Z"),
		newEvent("3", "2024-02-29T10:00:00Z", "2024-02-29T11:00:00Z"),
	}

	groups := GroupByDay(events)

	assert.ElementsMatch(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, SortedDayKeys(groups))
	for _, event := range events {
		count := 0
		for _, bucket := range groups {
			for _, e := range bucket {
				if e.ID == event.ID {
					count++
				}
			}
		}
		start, _ := event.StartTime()
		end, _ := event.EndTime()
		if DayKey(start) == DayKey(end) {
			assert.Equal(t, 1, count, "event %s", event.ID)
		} else {
			assert.Equal(t, 2, count, "event %s", event.ID)
		}
	}
}

func TestGroupByDay_InvalidDate(t *testing.T) {
	broken := newEvent("x", "not-a-date", "also-broken")
	half := newEvent("y", "2024-05-01T10:00:00Z", "garbage")

	groups := GroupByDay([]domain.Event{broken, half})

	assert.Equal(t, []domain.Event{broken, half}, groups[InvalidDayKey])
	assert.Equal(t, []domain.Event{half}, groups["2024-05-01"])
	assert.Equal(t, []string{"2024-05-01", InvalidDayKey}, SortedDayKeys(groups))
}

func TestGroupByDay_InvertedRange(t *testing.T) {
	event := newEvent("1", "2024-01-02T01:00:00Z", "2024-01-01T23:00:00Z")

	groups := GroupByDay([]domain.Event{event})

	assert.Equal(t, []domain.Event{event}, groups["2024-01-01"])
	assert.Equal(t, []domain.Event{event}, groups["2024-01-02"])
}

// --- SortedDayKeys テスト ---

func TestSortedDayKeys_Chronological(t *testing.T) {
	events := []domain.Event{
		newEvent("1", "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"),
		newEvent("2", "2023-12-31T10:00:00Z", "2023-12-31T11:00:00Z"),
		newEvent("3", "2024-06-15T10:00:00Z", "2024-06-15T11:00:00Z"),
	}

	keys := SortedDayKeys(GroupByDay(events))

	assert.Equal(t, []string{"2023-12-31", "2024-06-15", "2025-01-01"}, keys)
	for i := 1; i < len(keys); i++ {
		prev, err := time.Parse(time.DateOnly, keys[i-1])
		require.NoError(t, err)
		cur, err := time.Parse(time.DateOnly, keys[i])
		require.NoError(t, err)
		assert.True(t, prev.Before(cur))
	}
}

func TestSortedDayKeys_UsesDateComparison(t *testing.T) {
	groups := DayGroups{
		"2024-10-01": nil,
		"2024-09-30": nil,
		"zzz":        nil,
		"aaa":        nil,
	}

	assert.Equal(t, []string{"2024-09-30", "2024-10-01", "aaa", "zzz"}, SortedDayKeys(groups))
}

// --- Days テスト ---

func TestDays(t *testing.T) {
	event := newEvent("1", "2024-01-01T23:00:00Z", "2024-01-02T01:00:00Z")

	days := Days([]domain.Event{event})

	require.Len(t, days, 2)
	assert.Equal(t, "2024-01-01", days[0].Key)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, "2024-01-02", days[1].Key)
	assert.Equal(t, []domain.Event{event}, days[1].Events)
}
