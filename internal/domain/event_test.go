package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	ts := time.Date(2024, 1, 15, 9, 30, 5, 123456789, jst)

	assert.Equal(t, "2024-01-15T00:30:05.123Z", FormatTimestamp(ts))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"ミリ秒つき", "2024-01-15T00:30:05.123Z", time.Date(2024, 1, 15, 0, 30, 5, 123000000, time.UTC), false},
		{"秒まで", "2024-01-01T23:00:00Z", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), false},
		{"日付のみ", "2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"不正な値", "yesterday", time.Time{}, true},
		{"空文字", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(actual), "expected %s, got %s", tt.expected, actual)
		})
	}
}

func TestEventValidate(t *testing.T) {
	ok := Event{ID: "1", DateStart: "2024-01-01T10:00:00Z", DateEnd: "2024-01-01T10:00:00Z"}
	assert.NoError(t, ok.Validate())

	inverted := Event{ID: "2", DateStart: "2024-01-02T10:00:00Z", DateEnd: "2024-01-01T10:00:00Z"}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidRange)

	broken := Event{ID: "3", DateStart: "???", DateEnd: "2024-01-01T10:00:00Z"}
	assert.ErrorIs(t, broken.Validate(), ErrInvalidRange)
}

func TestEventCheckRange(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{name: "正常", event: Event{DateStart: "2024-01-01T10:00:00Z", DateEnd: "2024-01-01T11:00:00Z"}},
		{name: "逆転", event: Event{DateStart: "2024-01-02T10:00:00Z", DateEnd: "2024-01-01T10:00:00Z"}, wantErr: true},
		{name: "タイムゾーンなし", event: Event{DateStart: "2024-01-01T10:00:00", DateEnd: "2024-01-01T11:00:00"}},
		{name: "片方のみ解析不可", event: Event{DateStart: "???", DateEnd: "2024-01-01T10:00:00Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.CheckRange()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEventDuration(t *testing.T) {
	event := Event{DateStart: "2024-01-01T10:00:00Z", DateEnd: "2024-01-01T11:01:01Z"}
	assert.Equal(t, time.Hour+time.Minute+time.Second, event.Duration())

	assert.Zero(t, Event{DateStart: "bad", DateEnd: "2024-01-01T11:01:01Z"}.Duration())
}
