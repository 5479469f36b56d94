package gateway

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-negishi/timely/internal/domain"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func newTestICSExporter(buf *bytes.Buffer) *ICSExporter {
	exporter := NewICSExporter(buf)
	exporter.clock = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }
	return exporter
}

func TestICSExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := newTestICSExporter(&buf)

	events := []domain.Event{
		{ID: "ev-1", Title: "設計", DateStart: "2024-01-01T23:00:00.000Z", DateEnd: "2024-01-02T01:00:00.000Z"},
		{ID: "ev-2", DateStart: "2024-01-02T09:00:00.000Z", DateEnd: "2024-01-02T09:30:00.000Z"},
		{ID: "ev-3", Title: "壊れた", DateStart: "not-a-date", DateEnd: "2024-01-02T09:30:00.000Z"},
	}

	n, err := exporter.Export(context.Background(), events)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "UID:ev-1")
	assert.Contains(t, out, "SUMMARY:設計")
	assert.Contains(t, out, "DTSTART:20240101T230000Z")
	assert.Contains(t, out, "DTEND:20240102T010000Z")
	assert.Contains(t, out, "SUMMARY:Untitled Event")
	assert.NotContains(t, out, "UID:ev-3")
}

func TestICSExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := newTestICSExporter(&buf).Export(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, buf.String(), "END:VCALENDAR")
	assert.NotContains(t, buf.String(), "BEGIN:VEVENT")
}

func TestICSExporter_WriteError(t *testing.T) {
	exporter := NewICSExporter(failingWriter{})
	_, err := exporter.Export(context.Background(), []domain.Event{
		{ID: "ev-1", DateStart: "2024-01-01T23:00:00Z", DateEnd: "2024-01-02T01:00:00Z"},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "iCalendar の書き出しに失敗しました")
}
