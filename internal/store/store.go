// Package store イベント一覧を保存するキーバリュー型のブロブストア
//
// どのバックエンドも Get/Set の 2 操作のみを提供する。呼び出し側は値全体を
// 読み込み、変換し、値全体を書き戻す。
package store

import (
	"context"
	"fmt"
)

// DefaultKey イベント一覧を保存するキー
const DefaultKey = "events"

// BlobStore 文字列ブロブのキーバリューストア
type BlobStore interface {
	// Get キーの値を取得。キーが存在しない場合 ok は false
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set キーの値を置き換える
	Set(ctx context.Context, key, value string) error
}

// Open が受け付けるバックエンド名
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options バックエンドの選択と設定
type Options struct {
	Backend  string
	Path     string // file: JSON ファイル, sqlite: データベースファイル
	RedisURL string
}

// Opened 解放が必要なリソースを持つ BlobStore
type Opened interface {
	BlobStore
	Close() error
}

// Open opts で指定されたバックエンドを作成
func Open(ctx context.Context, opts Options) (Opened, error) {
	var (
		s   Opened
		err error
	)
	switch opts.Backend {
	case BackendMemory, "":
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(opts.Path)
	case BackendSQLite:
		s, err = OpenSQLite(opts.Path)
	case BackendRedis:
		s, err = OpenRedis(ctx, opts.RedisURL)
	default:
		return nil, fmt.Errorf("不明なストレージバックエンドです: %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Seed キーが存在しない場合に空の JSON 配列を書き込む
func Seed(ctx context.Context, s BlobStore, key string) error {
	_, ok, err := s.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("キー %q の初期化に失敗しました: %w", key, err)
	}
	if ok {
		return nil
	}
	return s.Set(ctx, key, "[]")
}
