package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/k-negishi/timely/internal/domain"
)

// MockEventRepository は EventRepository のテスト用モック
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Load(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, dateStart time.Time) (domain.Event, error) {
	args := m.Called(ctx, dateStart)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(domain.Event), args.Error(1)
}

// MockNotifier は SummaryNotifier のテスト用モック
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendDailySummary(ctx context.Context, day time.Time, events []domain.Event) error {
	args := m.Called(ctx, day, events)
	return args.Error(0)
}

// MockExporter は EventExporter のテスト用モック
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, events []domain.Event) (int, error) {
	args := m.Called(ctx, events)
	return args.Int(0), args.Error(1)
}

// MockObserver は OperationObserver のテスト用モック
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveOperation(op string, start time.Time, err error) {
	m.Called(op, start, err)
}
