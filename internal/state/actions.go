package state

import (
	"time"

	"github.com/k-negishi/timely/internal/domain"
)

// ActionType アクションの種類
type ActionType string

const (
	LoadRequest ActionType = "userEvents/load_request"
	LoadSuccess ActionType = "userEvents/load_success"
	LoadFailure ActionType = "userEvents/load_failure"

	CreateRequest ActionType = "userEvents/create_request"
	CreateSuccess ActionType = "userEvents/create_success"
	CreateFailure ActionType = "userEvents/create_failure"

	DeleteRequest ActionType = "userEvents/delete_request"
	DeleteSuccess ActionType = "userEvents/delete_success"
	DeleteFailure ActionType = "userEvents/delete_failure"

	UpdateRequest ActionType = "userEvents/update_request"
	UpdateSuccess ActionType = "userEvents/update_success"
	UpdateFailure ActionType = "userEvents/update_failure"

	RecorderStart ActionType = "recorder/start"
	RecorderStop  ActionType = "recorder/stop"
)

// Action ストアに送るメッセージ。種類に応じて使うフィールドが異なる
type Action struct {
	Type      ActionType
	Events    []domain.Event
	Event     domain.Event
	ID        string
	DateStart time.Time
	Error     string
}

// Requested 操作開始のアクション
func Requested(op Operation) Action {
	return Action{Type: lifecycle[op][0]}
}

// Failed 操作失敗のアクション。msg は表示用の固定メッセージ
func Failed(op Operation, msg string) Action {
	return Action{Type: lifecycle[op][2], Error: msg}
}

// Loaded 読み込み成功
func Loaded(events []domain.Event) Action {
	return Action{Type: LoadSuccess, Events: events}
}

// Created 作成成功
func Created(event domain.Event) Action {
	return Action{Type: CreateSuccess, Event: event}
}

// Deleted 削除成功
func Deleted(id string) Action {
	return Action{Type: DeleteSuccess, ID: id}
}

// Updated 更新成功
func Updated(event domain.Event) Action {
	return Action{Type: UpdateSuccess, Event: event}
}

// Started 記録開始
func Started(at time.Time) Action {
	return Action{Type: RecorderStart, DateStart: at}
}

// Stopped 記録停止
func Stopped() Action {
	return Action{Type: RecorderStop}
}

// lifecycle 操作ごとの request/success/failure
var lifecycle = map[Operation][3]ActionType{
	OpLoad:   {LoadRequest, LoadSuccess, LoadFailure},
	OpCreate: {CreateRequest, CreateSuccess, CreateFailure},
	OpDelete: {DeleteRequest, DeleteSuccess, DeleteFailure},
	OpUpdate: {UpdateRequest, UpdateSuccess, UpdateFailure},
}

var phaseStatus = [3]Status{StatusRequested, StatusSucceeded, StatusFailed}

// operationOf アクションが属する操作と遷移後の状態
func operationOf(t ActionType) (Operation, Status, bool) {
	for op, types := range lifecycle {
		for phase, candidate := range types {
			if candidate == t {
				return op, phaseStatus[phase], true
			}
		}
	}
	return "", StatusIdle, false
}
