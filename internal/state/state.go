// Package state 画面表示用の単方向データフローのストア
//
// アクションを Dispatch すると Reduce が新しい State を作り、購読者へ通知する。
// State は不変として扱い、Reduce は常にコピーを返す。
package state

import (
	"sync"
	"time"

	"github.com/k-negishi/timely/internal/domain"
)

// Operation リポジトリ操作の種類
type Operation string

const (
	OpLoad   Operation = "load"
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
	OpUpdate Operation = "update"
)

// Operations すべての操作
var Operations = []Operation{OpLoad, OpCreate, OpDelete, OpUpdate}

// Status 操作のライフサイクル
type Status string

const (
	StatusIdle      Status = ""
	StatusRequested Status = "requested"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// OperationStatus 直近の操作状態と失敗時のメッセージ
type OperationStatus struct {
	Status Status
	Error  string
}

// UserEvents ID 順序付きのイベント集合
type UserEvents struct {
	ByIDs  map[string]domain.Event
	AllIDs []string
}

// State ストア全体の状態
type State struct {
	UserEvents UserEvents
	// DateStart 記録中の開始時刻。待機中はゼロ値
	DateStart  time.Time
	Operations map[Operation]OperationStatus
}

// Initial 初期状態
func Initial() State {
	return State{
		UserEvents: UserEvents{ByIDs: map[string]domain.Event{}, AllIDs: []string{}},
		Operations: map[Operation]OperationStatus{},
	}
}

// Store State を保持しアクションを適用する
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// NewStore 初期状態のストアを作成
func NewStore() *Store {
	return &Store{
		state:     Initial(),
		listeners: map[int]func(State){},
	}
}

// Dispatch アクションを適用し購読者へ通知する
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	current := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(current)
	}
}

// Subscribe 状態変更の通知を登録し、解除関数を返す
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// State 現在の状態
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SelectUserEventsArray 登録順のイベント一覧
func (s *Store) SelectUserEventsArray() []domain.Event {
	st := s.State()
	events := make([]domain.Event, 0, len(st.UserEvents.AllIDs))
	for _, id := range st.UserEvents.AllIDs {
		events = append(events, st.UserEvents.ByIDs[id])
	}
	return events
}

// SelectUserEvent ID でイベントを取得
func (s *Store) SelectUserEvent(id string) (domain.Event, bool) {
	st := s.State()
	event, ok := st.UserEvents.ByIDs[id]
	return event, ok
}

// SelectDateStart 記録中の開始時刻。待機中は ok が false
func (s *Store) SelectDateStart() (time.Time, bool) {
	st := s.State()
	return st.DateStart, !st.DateStart.IsZero()
}

// SelectOperation 操作の状態
func (s *Store) SelectOperation(op Operation) OperationStatus {
	return s.State().Operations[op]
}
