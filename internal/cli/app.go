package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/k-negishi/timely/internal/config"
	"github.com/k-negishi/timely/internal/gateway"
	"github.com/k-negishi/timely/internal/metrics"
	"github.com/k-negishi/timely/internal/recorder"
	"github.com/k-negishi/timely/internal/state"
	"github.com/k-negishi/timely/internal/store"
	"github.com/k-negishi/timely/internal/usecase"
)

// app 1 回のコマンド実行で使う依存一式
type app struct {
	cfg      *config.Config
	location *time.Location
	blobs    store.Opened
	repo     *gateway.BlobEventRepository
	recorder *recorder.Recorder
	state    *state.Store
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	tracker  *usecase.TrackEventsUseCase
}

// openApp ストレージを開き、保存済みのイベントを読み込んだ状態で返す
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "タイムゾーンの設定が不正です", err)
	}

	if cfg.StorageBackend == store.BackendFile || cfg.StorageBackend == store.BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o700); err != nil {
			return nil, WrapExitError(ExitCommandError, "保存先ディレクトリを作成できませんでした", err)
		}
	}

	blobs, err := store.Open(ctx, store.Options{
		Backend:  cfg.StorageBackend,
		Path:     cfg.StoragePath,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "ストレージを開けませんでした", err)
	}
	if err := store.Seed(ctx, blobs, cfg.StorageKey); err != nil {
		blobs.Close()
		return nil, WrapExitError(ExitCommandError, "ストレージの初期化に失敗しました", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	a := &app{
		cfg:      cfg,
		location: loc,
		blobs:    blobs,
		repo:     gateway.NewBlobEventRepository(blobs, cfg.StorageKey),
		recorder: recorder.New(),
		state:    state.NewStore(),
		registry: registry,
		metrics:  m,
	}
	a.state.Subscribe(func(st state.State) {
		m.SetRecording(!st.DateStart.IsZero())
	})
	a.tracker = usecase.NewTrackEventsUseCase(a.repo, a.recorder, a.state, m)

	if err := a.tracker.LoadEvents(ctx); err != nil {
		a.Close()
		return nil, WrapExitError(ExitCommandError, "イベントを読み込めませんでした", err)
	}
	slog.Debug("ストレージを開きました", "backend", cfg.StorageBackend, "key", cfg.StorageKey, "events", len(a.tracker.Events()))
	return a, nil
}

// Close ストレージを閉じる
func (a *app) Close() {
	if err := a.blobs.Close(); err != nil {
		slog.Error("ストレージのクローズに失敗しました", "error", err)
	}
}

// summaryNotifier LINE 通知の設定が揃っていれば日次サマリー通知ユースケースを返す
func (a *app) summaryNotifier() (*usecase.NotifySummaryUseCase, error) {
	if err := a.cfg.RequireLINE(); err != nil {
		return nil, err
	}
	notifier := gateway.NewLINENotifier(a.cfg.LineChannelAccessToken, a.cfg.LineUserID, a.location)
	return usecase.NewNotifySummaryUseCase(a.repo, notifier), nil
}

// parseDay YYYY-MM-DD を UTC の日付として解析。空なら今日
func parseDay(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now.UTC(), nil
	}
	day, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("日付は YYYY-MM-DD 形式で指定してください: %q", value)
	}
	return day, nil
}
