package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/k-negishi/timely/internal/domain"
	"github.com/k-negishi/timely/internal/store"
)

// BlobEventRepository ブロブストアの 1 キーにイベント一覧を JSON 配列で保存する EventRepository の実装
//
// すべての操作は一覧全体を読み込み、変換し、一覧全体を書き戻す。
// 操作間のロックはなく、同時実行された場合は後勝ちになる。
type BlobEventRepository struct {
	blobs store.BlobStore
	key   string
	clock func() time.Time
	newID func() string
}

// NewBlobEventRepository リポジトリを作成
func NewBlobEventRepository(blobs store.BlobStore, key string) *BlobEventRepository {
	if key == "" {
		key = store.DefaultKey
	}
	return &BlobEventRepository{
		blobs: blobs,
		key:   key,
		clock: time.Now,
		newID: uuid.NewString,
	}
}

// Load 保存されているイベントをすべて取得
func (r *BlobEventRepository) Load(ctx context.Context) ([]domain.Event, error) {
	events, err := r.readAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailed, err)
	}
	return events, nil
}

// Create 記録開始時刻から現在時刻までのイベントを作成して保存
func (r *BlobEventRepository) Create(ctx context.Context, dateStart time.Time) (domain.Event, error) {
	event := domain.Event{
		ID:        r.newID(),
		Title:     domain.DefaultEventTitle,
		DateStart: domain.FormatTimestamp(dateStart),
		DateEnd:   domain.FormatTimestamp(r.clock()),
	}
	if err := event.Validate(); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrCreateFailed, err)
	}

	events, err := r.readAll(ctx)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrCreateFailed, err)
	}
	events = append(events, event)
	if err := r.writeAll(ctx, events); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrCreateFailed, err)
	}
	return event, nil
}

// Delete 指定 ID のイベントを削除。存在しない ID はそのまま成功とする
func (r *BlobEventRepository) Delete(ctx context.Context, id string) (string, error) {
	events, err := r.readAll(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDeleteFailed, err)
	}

	filtered := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if event.ID != id {
			filtered = append(filtered, event)
		}
	}
	if err := r.writeAll(ctx, filtered); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDeleteFailed, err)
	}
	return id, nil
}

// Update 同じ ID のイベントを丸ごと置き換える。存在しない ID の場合一覧は変わらない
//
// 前後が逆転した時刻だけを拒否し、解析できない時刻はそのまま保存する。
func (r *BlobEventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err := event.CheckRange(); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}

	events, err := r.readAll(ctx)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}
	for i := range events {
		if events[i].ID == event.ID {
			events[i] = event
		}
	}
	if err := r.writeAll(ctx, events); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}
	return event, nil
}

// readAll ブロブを読み込み解析する。キーがない場合は空の一覧
func (r *BlobEventRepository) readAll(ctx context.Context) ([]domain.Event, error) {
	raw, ok, err := r.blobs.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("キー %q の読み込みに失敗しました: %v", r.key, err)
	}
	if !ok {
		return []domain.Event{}, nil
	}

	var events []domain.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, fmt.Errorf("イベント一覧の JSON 解析に失敗しました: %v", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

// writeAll 一覧全体をシリアライズして書き戻す
func (r *BlobEventRepository) writeAll(ctx context.Context, events []domain.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("イベント一覧の JSON 変換に失敗しました: %v", err)
	}
	if err := r.blobs.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("キー %q の書き込みに失敗しました: %v", r.key, err)
	}
	return nil
}
