package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/k-negishi/timely/internal/domain"
)

// --- Execute テスト ---

func TestNotifySummary_Success(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockNotifier := new(MockNotifier)
	uc := NewNotifySummaryUseCase(mockRepo, mockNotifier)

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	events := storedEvents()

	mockRepo.On("Load", mock.Anything).Return(events, nil)
	// 日をまたぐイベントは終了日のサマリーにも含まれる
	mockNotifier.On("SendDailySummary", mock.Anything, day, []domain.Event{events[0]}).Return(nil)

	skipped, err := uc.Execute(context.Background(), day)
	require.NoError(t, err)
	assert.False(t, skipped)
	mockRepo.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestNotifySummary_NoEvents_Skipped(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockNotifier := new(MockNotifier)
	uc := NewNotifySummaryUseCase(mockRepo, mockNotifier)

	mockRepo.On("Load", mock.Anything).Return(storedEvents(), nil)

	skipped, err := uc.Execute(context.Background(), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, skipped)
	// 記録なしの場合 SendDailySummary は呼ばれない
	mockNotifier.AssertNotCalled(t, "SendDailySummary")
}

func TestNotifySummary_LoadError(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockNotifier := new(MockNotifier)
	uc := NewNotifySummaryUseCase(mockRepo, mockNotifier)

	mockRepo.On("Load", mock.Anything).Return(nil, errors.New("storage error"))

	_, err := uc.Execute(context.Background(), time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "storage error")
	mockNotifier.AssertNotCalled(t, "SendDailySummary")
}

func TestNotifySummary_NotifierError(t *testing.T) {
	mockRepo := new(MockEventRepository)
	mockNotifier := new(MockNotifier)
	uc := NewNotifySummaryUseCase(mockRepo, mockNotifier)

	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	mockRepo.On("Load", mock.Anything).Return(storedEvents(), nil)
	mockNotifier.On("SendDailySummary", mock.Anything, day, mock.Anything).Return(errors.New("LINE API error"))

	_, err := uc.Execute(context.Background(), day)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LINE API error")
}
