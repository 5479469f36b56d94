package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/k-negishi/timely/internal/domain"
)

// LINENotifier LINE Messaging APIを使用したNotifierの実装
type LINENotifier struct {
	channelAccessToken string
	userID             string
	httpClient         *http.Client
	endpoint           string
	timezone           *time.Location
}

// lineMessage LINE APIに送信するメッセージ構造体
type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// linePushRequest LINE Push APIのリクエスト構造体
type linePushRequest struct {
	To       string        `json:"to"`
	Messages []lineMessage `json:"messages"`
}

// lineErrorResponse LINE APIのエラーレスポンス構造体
type lineErrorResponse struct {
	Message string `json:"message"`
	Details []struct {
		Message  string `json:"message"`
		Property string `json:"property"`
	} `json:"details"`
}

// NewLINENotifier LINE通知クライアントを作成
func NewLINENotifier(channelAccessToken, userID string, timezone *time.Location) *LINENotifier {
	if timezone == nil {
		timezone = time.UTC
	}
	return &LINENotifier{
		channelAccessToken: channelAccessToken,
		userID:             userID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint: "https://api.line.me/v2/bot/message/push",
		timezone: timezone,
	}
}

// SendDailySummary 1 日分の記録をLINEで通知
func (n *LINENotifier) SendDailySummary(ctx context.Context, day time.Time, events []domain.Event) error {
	// 通知メッセージを作成
	message := n.buildSummaryMessage(day, events)

	// LINE Push APIでメッセージを送信
	return n.sendPushMessage(ctx, message)
}

// buildSummaryMessage サマリー通知用のメッセージを構築
//
// 時刻は設定されたタイムゾーンで表示する。日付の見出しは UTC の暦日。
func (n *LINENotifier) buildSummaryMessage(day time.Time, events []domain.Event) string {
	var messageBuilder strings.Builder

	messageBuilder.WriteString("Timely 日次レポート\n\n")

	heading := day.UTC()
	dow := getWeekdayJapanese(heading.Weekday())

	var total time.Duration
	for _, event := range events {
		total += event.Duration()
	}

	if len(events) == 0 {
		messageBuilder.WriteString(fmt.Sprintf("%s(%s): 記録なし\n", heading.Format("1/2"), dow))
		return messageBuilder.String()
	}

	messageBuilder.WriteString(fmt.Sprintf("%s(%s) 合計 %s (%d件):\n", heading.Format("1/2"), dow, formatTotal(total), len(events)))
	for _, event := range events {
		n.appendEventToMessage(&messageBuilder, event)
	}

	return messageBuilder.String()
}

// appendEventToMessage イベントをメッセージに追加
func (n *LINENotifier) appendEventToMessage(builder *strings.Builder, event domain.Event) {
	start, startErr := event.StartTime()
	end, endErr := event.EndTime()
	if startErr != nil || endErr != nil {
		builder.WriteString(fmt.Sprintf("🔸 (時刻不明) %s\n", event.Title))
		return
	}

	timeRange := fmt.Sprintf("%s〜%s",
		start.In(n.timezone).Format("15:04"),
		end.In(n.timezone).Format("15:04"))
	builder.WriteString(fmt.Sprintf("🔸 %s %s\n", timeRange, event.Title))
}

// formatTotal 合計時間を「X時間Y分」形式に変換
func formatTotal(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d分", minutes)
	}
	return fmt.Sprintf("%d時間%d分", minutes/60, minutes%60)
}

// sendPushMessage LINE Push APIでメッセージを送信
func (n *LINENotifier) sendPushMessage(ctx context.Context, message string) error {
	// リクエストボディを作成
	pushRequest := linePushRequest{
		To: n.userID,
		Messages: []lineMessage{
			{
				Type: "text",
				Text: message,
			},
		},
	}

	requestBody, err := json.Marshal(pushRequest)
	if err != nil {
		return fmt.Errorf("リクエストボディのJSON変換に失敗しました: %v", err)
	}

	// HTTPリクエストを作成
	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		n.endpoint,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %v", err)
	}

	// ヘッダーを設定
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", n.channelAccessToken))

	// APIリクエストを送信
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("LINE APIリクエストの送信に失敗しました: %v", err)
	}
	defer resp.Body.Close()

	// レスポンスを確認
	if resp.StatusCode != http.StatusOK {
		// エラーレスポンスの詳細を取得
		var errorResponse lineErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errorResponse); err != nil {
			return fmt.Errorf("LINE API呼び出しが失敗しました (Status: %d, レスポンス解析不可: %v)", resp.StatusCode, err)
		}

		errorDetails := errorResponse.Message
		if len(errorResponse.Details) > 0 {
			errorDetails += fmt.Sprintf(" (詳細: %s)", errorResponse.Details[0].Message)
		}

		return fmt.Errorf("LINE API呼び出しが失敗しました (Status: %d): %s", resp.StatusCode, errorDetails)
	}

	return nil
}

// getWeekdayJapanese 曜日を日本語に変換
func getWeekdayJapanese(weekday time.Weekday) string {
	weekdays := map[time.Weekday]string{
		time.Sunday:    "日",
		time.Monday:    "月",
		time.Tuesday:   "火",
		time.Wednesday: "水",
		time.Thursday:  "木",
		time.Friday:    "金",
		time.Saturday:  "土",
	}
	return weekdays[weekday]
}
