package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix 他用途のキーと衝突しないための接頭辞
const redisKeyPrefix = "timely:"

// RedisStore Redis の文字列キーにブロブを保存する
type RedisStore struct {
	client redis.Cmdable
	closer func() error
}

// OpenRedis URL から Redis クライアントを作成し疎通を確認する
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	if url == "" {
		return nil, errors.New("Redis の URL が空です")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("Redis URL の解析に失敗しました: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redis への ping に失敗しました: %w", err)
	}
	return &RedisStore{client: client, closer: client.Close}, nil
}

// NewRedisStore 既存のクライアントを使う RedisStore を作成
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

// Close 自身で作成したクライアントのみ閉じる
func (r *RedisStore) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
