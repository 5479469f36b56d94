package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryDay(t *testing.T) {
	jst := time.FixedZone("Asia/Tokyo", 9*60*60)
	now := time.Date(2024, 1, 16, 7, 0, 0, 0, jst)

	day, err := summaryDay(LambdaEvent{}, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", day.Format(time.DateOnly))

	day, err = summaryDay(LambdaEvent{Date: "2024-02-29"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day)

	_, err = summaryDay(LambdaEvent{Date: "yesterday"}, now)
	assert.Error(t, err)
}
