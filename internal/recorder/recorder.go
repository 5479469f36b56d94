// Package recorder 作業セッションのストップウォッチ
package recorder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/k-negishi/timely/internal/domain"
)

// Recorder 待機中／記録中を管理する状態機械
//
// 開始時刻はメモリ上にのみ保持し、プロセス終了で失われる。
type Recorder struct {
	mu        sync.Mutex
	startedAt time.Time
	recording bool
	stopTick  context.CancelFunc
	clock     func() time.Time
}

// New Recorder を作成
func New() *Recorder {
	return NewWithClock(time.Now)
}

// NewWithClock 時刻取得関数を指定して Recorder を作成
func NewWithClock(clock func() time.Time) *Recorder {
	return &Recorder{clock: clock}
}

// Start 記録を開始し開始時刻を返す
func (r *Recorder) Start() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return time.Time{}, domain.ErrAlreadyRecording
	}
	r.startedAt = r.clock()
	r.recording = true
	return r.startedAt, nil
}

// Stop 記録を停止し開始時刻を返す。動作中のティッカーも止める
func (r *Recorder) Stop() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return time.Time{}, domain.ErrNotRecording
	}
	startedAt := r.startedAt
	r.recording = false
	r.startedAt = time.Time{}
	if r.stopTick != nil {
		r.stopTick()
		r.stopTick = nil
	}
	return startedAt, nil
}

// Recording 記録中かどうか
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Elapsed 現在の経過時間。待機中はゼロ
func (r *Recorder) Elapsed() Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return Duration{}
	}
	return Split(r.clock().Sub(r.startedAt))
}

// Tick 記録中、1 秒ごとに経過時間を送るチャネルを返す
//
// Stop または ctx のキャンセルでチャネルは閉じられる。
// 以前のティッカーが動いていれば置き換える。
func (r *Recorder) Tick(ctx context.Context) (<-chan Duration, error) {
	return r.tickEvery(ctx, time.Second)
}

func (r *Recorder) tickEvery(ctx context.Context, interval time.Duration) (<-chan Duration, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, domain.ErrNotRecording
	}
	if r.stopTick != nil {
		r.stopTick()
	}
	tickCtx, cancel := context.WithCancel(ctx)
	r.stopTick = cancel
	r.mu.Unlock()

	out := make(chan Duration, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				select {
				case out <- r.Elapsed():
				case <-tickCtx.Done():
					return
				default:
					// 受信側が遅れている場合は古い値を捨てる
				}
			}
		}
	}()
	return out, nil
}

// Duration 時・分・秒に分解した経過時間
type Duration struct {
	Hours   int64
	Minutes int64
	Seconds int64
}

// Split 経過時間を 60 進で時・分・秒に分解する。時に上限はない
func Split(d time.Duration) Duration {
	seconds := int64(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	seconds -= hours * 3600
	minutes := seconds / 60
	seconds -= minutes * 60
	return Duration{Hours: hours, Minutes: minutes, Seconds: seconds}
}

// String HH:MM:SS 形式
func (d Duration) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hours, d.Minutes, d.Seconds)
}
