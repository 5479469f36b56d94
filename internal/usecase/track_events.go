package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/k-negishi/timely/internal/calendar"
	"github.com/k-negishi/timely/internal/domain"
	"github.com/k-negishi/timely/internal/state"
)

// 失敗時にストアへ記録する固定メッセージ
var failureMessages = map[state.Operation]string{
	state.OpLoad:   "Failed to load",
	state.OpCreate: "Failed to create",
	state.OpDelete: "Failed to delete",
	state.OpUpdate: "Failed to update",
}

// TrackEventsUseCase 記録とイベント操作のユースケース
//
// 各操作は request → success | failure の順でストアへアクションを送る。
// 失敗してもストアの既存の状態は変わらない。
type TrackEventsUseCase struct {
	repo     EventRepository
	recorder Recorder
	store    *state.Store
	observer OperationObserver
}

// NewTrackEventsUseCase ユースケースを生成。observer は nil でもよい
func NewTrackEventsUseCase(repo EventRepository, recorder Recorder, store *state.Store, observer OperationObserver) *TrackEventsUseCase {
	return &TrackEventsUseCase{
		repo:     repo,
		recorder: recorder,
		store:    store,
		observer: observer,
	}
}

// LoadEvents 保存済みイベントを読み込む
func (uc *TrackEventsUseCase) LoadEvents(ctx context.Context) error {
	uc.store.Dispatch(state.Requested(state.OpLoad))

	start := time.Now()
	events, err := uc.repo.Load(ctx)
	uc.observe(state.OpLoad, start, err)
	if err != nil {
		uc.fail(state.OpLoad, err)
		return err
	}

	uc.store.Dispatch(state.Loaded(events))
	return nil
}

// StartRecording 記録を開始
func (uc *TrackEventsUseCase) StartRecording() (time.Time, error) {
	startedAt, err := uc.recorder.Start()
	if err != nil {
		return time.Time{}, err
	}
	uc.store.Dispatch(state.Started(startedAt))
	slog.Info("記録を開始しました", "date_start", domain.FormatTimestamp(startedAt))
	return startedAt, nil
}

// StopRecording 記録を停止し、開始時刻から現在までのイベントを作成する
//
// 作成に失敗しても記録は停止状態になる。
func (uc *TrackEventsUseCase) StopRecording(ctx context.Context) (domain.Event, error) {
	startedAt, err := uc.recorder.Stop()
	if err != nil {
		return domain.Event{}, err
	}

	uc.store.Dispatch(state.Requested(state.OpCreate))
	start := time.Now()
	event, err := uc.repo.Create(ctx, startedAt)
	uc.observe(state.OpCreate, start, err)
	uc.store.Dispatch(state.Stopped())
	if err != nil {
		uc.fail(state.OpCreate, err)
		return domain.Event{}, err
	}

	uc.store.Dispatch(state.Created(event))
	slog.Info("イベントを作成しました", "id", event.ID, "date_start", event.DateStart, "date_end", event.DateEnd)
	return event, nil
}

// DeleteEvent イベントを削除
func (uc *TrackEventsUseCase) DeleteEvent(ctx context.Context, id string) error {
	uc.store.Dispatch(state.Requested(state.OpDelete))

	start := time.Now()
	deleted, err := uc.repo.Delete(ctx, id)
	uc.observe(state.OpDelete, start, err)
	if err != nil {
		uc.fail(state.OpDelete, err)
		return err
	}

	uc.store.Dispatch(state.Deleted(deleted))
	return nil
}

// RenameEvent タイトルを変更する。タイトルが変わらない場合は保存しない
func (uc *TrackEventsUseCase) RenameEvent(ctx context.Context, id, title string) (event domain.Event, changed bool, err error) {
	current, ok := uc.store.SelectUserEvent(id)
	if !ok {
		return domain.Event{}, false, domain.ErrEventNotFound
	}
	if current.Title == title {
		return current, false, nil
	}

	renamed := current
	renamed.Title = title
	updated, err := uc.UpdateEvent(ctx, renamed)
	if err != nil {
		return domain.Event{}, false, err
	}
	return updated, true, nil
}

// UpdateEvent イベントを丸ごと置き換える
func (uc *TrackEventsUseCase) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	uc.store.Dispatch(state.Requested(state.OpUpdate))

	start := time.Now()
	updated, err := uc.repo.Update(ctx, event)
	uc.observe(state.OpUpdate, start, err)
	if err != nil {
		uc.fail(state.OpUpdate, err)
		return domain.Event{}, err
	}

	uc.store.Dispatch(state.Updated(updated))
	return updated, nil
}

// Events 登録順のイベント一覧
func (uc *TrackEventsUseCase) Events() []domain.Event {
	return uc.store.SelectUserEventsArray()
}

// Days 日付順にまとめたイベント一覧
func (uc *TrackEventsUseCase) Days() []calendar.Day {
	return calendar.Days(uc.store.SelectUserEventsArray())
}

// DateStart 記録中なら開始時刻を返す
func (uc *TrackEventsUseCase) DateStart() (time.Time, bool) {
	return uc.store.SelectDateStart()
}

// Operation 操作の直近の状態。失敗時は固定メッセージを含む
func (uc *TrackEventsUseCase) Operation(op state.Operation) state.OperationStatus {
	return uc.store.SelectOperation(op)
}

func (uc *TrackEventsUseCase) fail(op state.Operation, err error) {
	slog.Error("イベント操作に失敗しました", "op", string(op), "error", err)
	uc.store.Dispatch(state.Failed(op, failureMessages[op]))
}

func (uc *TrackEventsUseCase) observe(op state.Operation, start time.Time, err error) {
	if uc.observer == nil {
		return
	}
	uc.observer.ObserveOperation(string(op), start, err)
}
