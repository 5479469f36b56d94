package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBlobStore すべてのバックエンドで共通の振る舞いを確認する
func exerciseBlobStore(t *testing.T, s BlobStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, DefaultKey, `[{"id":"1"}]`))
	v, ok, err := s.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Set(ctx, DefaultKey, `[]`))
	v, _, err = s.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Set(ctx, "other", "x"))
	v, _, err = s.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, v, "別キーの書き込みで値が変わってはいけない")
}

func TestMemoryStore(t *testing.T) {
	exerciseBlobStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	exerciseBlobStore(t, s)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// 再度開いても値が残っている
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestFileStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = s.Get(context.Background(), DefaultKey)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "の解析に失敗しました")
}

func TestFileStore_EmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timely.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseBlobStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendFile, Path: filepath.Join(t.TempDir(), "e.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "不明なストレージバックエンドです")
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, Seed(ctx, s, DefaultKey))
	v, ok, err := s.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	// 既存の値は上書きしない
	require.NoError(t, s.Set(ctx, DefaultKey, `[{"id":"1"}]`))
	require.NoError(t, Seed(ctx, s, DefaultKey))
	v, _, _ = s.Get(ctx, DefaultKey)
	assert.Equal(t, `[{"id":"1"}]`, v)
}
