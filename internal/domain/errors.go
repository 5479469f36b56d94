package domain

import "errors"

// リポジトリ操作の失敗種別。呼び出し側は errors.Is で判定する
var (
	ErrLoadFailed   = errors.New("failed to load events")
	ErrCreateFailed = errors.New("failed to create event")
	ErrDeleteFailed = errors.New("failed to delete event")
	ErrUpdateFailed = errors.New("failed to update event")
)

var (
	// ErrNotRecording 記録中でないのに停止しようとした
	ErrNotRecording = errors.New("recorder is not recording")
	// ErrAlreadyRecording 記録中に再度開始しようとした
	ErrAlreadyRecording = errors.New("recorder is already recording")
	// ErrInvalidRange 終了時刻が開始時刻より前、または時刻が解析できない
	ErrInvalidRange = errors.New("invalid event time range")
	// ErrEventNotFound 指定 ID のイベントが存在しない
	ErrEventNotFound = errors.New("event not found")
)
