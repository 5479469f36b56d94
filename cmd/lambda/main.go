package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/k-negishi/timely/internal/config"
	"github.com/k-negishi/timely/internal/gateway"
	"github.com/k-negishi/timely/internal/logging"
	"github.com/k-negishi/timely/internal/store"
	"github.com/k-negishi/timely/internal/usecase"
)

// LambdaEvent Lambda実行時のイベント構造体
type LambdaEvent struct {
	// Date 集計する UTC の日付（YYYY-MM-DD）。EventBridge Schedulerからの実行では空
	Date string `json:"date,omitempty"`
}

// LambdaResponse Lambda実行結果のレスポンス
type LambdaResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// handler Lambda関数のメインハンドラー
func handler(ctx context.Context, event LambdaEvent) (LambdaResponse, error) {
	// 設定を読み込み
	cfg, err := config.Load(ctx)
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "設定読み込みエラー",
		}, err
	}
	logging.Setup(cfg.LogLevel, os.Stderr)

	day, err := summaryDay(event, time.Now())
	if err != nil {
		return LambdaResponse{
			StatusCode: 400,
			Message:    "日付指定エラー",
		}, err
	}

	// Redisのイベントストアに接続
	blobs, err := store.Open(ctx, store.Options{Backend: cfg.StorageBackend, RedisURL: cfg.RedisURL})
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "ストレージ接続エラー",
		}, err
	}
	defer blobs.Close()

	loc, err := cfg.Location()
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "タイムゾーン設定エラー",
		}, err
	}

	repo := gateway.NewBlobEventRepository(blobs, cfg.StorageKey)
	notifier := gateway.NewLINENotifier(cfg.LineChannelAccessToken, cfg.LineUserID, loc)
	notifySummary := usecase.NewNotifySummaryUseCase(repo, notifier)

	skipped, err := notifySummary.Execute(ctx, day)
	if err != nil {
		slog.Error("日次サマリー通知に失敗しました", "day", day.Format(time.DateOnly), "error", err)
		return LambdaResponse{
			StatusCode: 500,
			Message:    "日次サマリー通知エラー",
		}, err
	}

	// 記録がない日はスキップ
	if skipped {
		return LambdaResponse{
			StatusCode: 200,
			Message:    "記録なしのため通知スキップ",
		}, nil
	}

	return LambdaResponse{
		StatusCode: 200,
		Message:    "通知送信完了",
	}, nil
}

// summaryDay 集計対象の日付。指定がなければ UTC の今日
func summaryDay(event LambdaEvent, now time.Time) (time.Time, error) {
	if event.Date == "" {
		return now.UTC(), nil
	}
	return time.ParseInLocation(time.DateOnly, event.Date, time.UTC)
}

func main() {
	lambda.Start(handler)
}
