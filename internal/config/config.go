package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
)

// SSMParameterGetter Parameter Store からの取得に必要な操作
type SSMParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Config アプリケーション設定構造体
type Config struct {
	// ストレージ設定
	StorageBackend string
	StoragePath    string
	StorageKey     string
	RedisURL       string

	// HTTP API・定期実行設定
	Listen      string
	SummaryCron string

	// Google Calendar設定
	GoogleCredentials string
	CalendarID        string

	// LINE API設定
	LineChannelAccessToken string
	LineUserID             string

	// その他設定
	LogLevel string
	Timezone string

	// AWS関連（本番環境でのみ使用）
	ssmClient SSMParameterGetter
}

// Load 環境に応じて設定を読み込み
func Load(ctx context.Context) (*Config, error) {
	// AWS Lambda環境かどうか判定
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return loadAWSConfig(ctx)
	}
	return loadLocalConfig()
}

// loadLocalConfig ローカル開発環境用の設定読み込み
func loadLocalConfig() (*Config, error) {
	// .envファイルを読み込み（存在する場合のみ）
	if err := godotenv.Load(); err != nil {
		// .envファイルが存在しない場合はエラーにしない
		slog.Debug(".envファイルが見つかりません", "error", err)
	}

	cfg := &Config{
		StorageBackend:         getEnvOrDefault("TIMELY_STORAGE", "sqlite"),
		StoragePath:            getEnvOrDefault("TIMELY_STORAGE_PATH", defaultStoragePath()),
		StorageKey:             getEnvOrDefault("TIMELY_STORAGE_KEY", "events"),
		RedisURL:               getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		Listen:                 getEnvOrDefault("TIMELY_LISTEN", "127.0.0.1:8080"),
		SummaryCron:            getEnvOrDefault("TIMELY_SUMMARY_CRON", "0 22 * * *"),
		GoogleCredentials:      getEnvOrDefault("GOOGLE_CREDENTIALS", ""),
		CalendarID:             getEnvOrDefault("CALENDAR_ID", "primary"),
		LineChannelAccessToken: getEnvOrDefault("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineUserID:             getEnvOrDefault("LINE_USER_ID", ""),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "INFO"),
		Timezone:               getEnvOrDefault("TIMEZONE", "Asia/Tokyo"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAWSConfig AWS Lambda環境用の設定読み込み
//
// Lambda ではストレージは Redis 固定。
func loadAWSConfig(ctx context.Context) (*Config, error) {
	// AWS設定を初期化
	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %v", err)
	}

	cfg := &Config{
		StorageBackend: "redis",
		StorageKey:     getEnvOrDefault("TIMELY_STORAGE_KEY", "events"),
		CalendarID:     getEnvOrDefault("CALENDAR_ID", "primary"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "INFO"),
		Timezone:       getEnvOrDefault("TIMEZONE", "Asia/Tokyo"),
		ssmClient:      ssm.NewFromConfig(awsConfig),
	}

	// Parameter Storeから機密情報を取得
	if err := cfg.loadFromParameterStore(ctx); err != nil {
		return nil, fmt.Errorf("parameter Storeからの設定読み込みに失敗しました: %v", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromParameterStore Parameter Storeから機密情報を読み込み
func (c *Config) loadFromParameterStore(ctx context.Context) error {
	// Redis接続先を取得
	redisParam := getEnvOrDefault("SSM_REDIS_URL_PARAM", "/timely/redis-url")
	redisURL, err := c.getParameter(ctx, redisParam, true)
	if err != nil {
		return fmt.Errorf("redis接続先の取得に失敗しました: %v", err)
	}
	c.RedisURL = redisURL

	// LINE Channel Access Tokenを取得
	lineTokenParam := getEnvOrDefault("SSM_LINE_TOKEN_PARAM", "/timely/line-channel-access-token")
	lineToken, err := c.getParameter(ctx, lineTokenParam, true)
	if err != nil {
		return fmt.Errorf("LINE Channel Access Tokenの取得に失敗しました: %v", err)
	}
	c.LineChannelAccessToken = lineToken

	// LINE User IDを取得
	lineUserParam := getEnvOrDefault("SSM_LINE_USER_ID_PARAM", "/timely/line-user-id")
	lineUser, err := c.getParameter(ctx, lineUserParam, true)
	if err != nil {
		return fmt.Errorf("LINE User IDの取得に失敗しました: %v", err)
	}
	c.LineUserID = lineUser

	return nil
}

// getParameter Parameter Storeから指定されたパラメータを取得
func (c *Config) getParameter(ctx context.Context, paramName string, withDecryption bool) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(withDecryption),
	}

	result, err := c.ssmClient.GetParameter(ctx, input)
	if err != nil {
		return "", fmt.Errorf("パラメータ %s の取得に失敗しました: %v", paramName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil || *result.Parameter.Value == "" {
		return "", fmt.Errorf("パラメータ %s は空の値です", paramName)
	}

	return *result.Parameter.Value, nil
}

// validate 機能に依らず常に必要な設定項目の確認
func (c *Config) validate() error {
	switch c.StorageBackend {
	case "memory", "file", "sqlite", "redis":
	default:
		return fmt.Errorf("TIMELY_STORAGE の値が不正です: %q", c.StorageBackend)
	}
	if c.StorageKey == "" {
		return errors.New("TIMELY_STORAGE_KEY が空です")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// RequireLINE LINE通知に必要な設定項目の確認
func (c *Config) RequireLINE() error {
	if c.LineChannelAccessToken == "" {
		return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN環境変数が設定されていません")
	}
	if c.LineUserID == "" {
		return fmt.Errorf("LINE_USER_ID環境変数が設定されていません")
	}
	return nil
}

// RequireGoogle Google Calendar連携に必要な設定項目の確認
func (c *Config) RequireGoogle() error {
	if c.GoogleCredentials == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS環境変数が設定されていません")
	}
	if c.CalendarID == "" {
		return fmt.Errorf("CALENDAR_ID環境変数が設定されていません")
	}
	return nil
}

// GoogleCredentialsJSON Google認証情報をJSONとして検証して返す
func (c *Config) GoogleCredentialsJSON() ([]byte, error) {
	var credentials map[string]interface{}
	if err := json.Unmarshal([]byte(c.GoogleCredentials), &credentials); err != nil {
		return nil, fmt.Errorf("google認証情報のJSON解析に失敗しました: %v", err)
	}
	return []byte(c.GoogleCredentials), nil
}

// Location 表示用タイムゾーン
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE の値が不正です: %q: %v", c.Timezone, err)
	}
	return loc, nil
}

// defaultStoragePath ホームディレクトリ配下の既定の保存先
func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timely.db"
	}
	return filepath.Join(home, ".timely", "timely.db")
}

// getEnvOrDefault 環境変数を取得し、存在しない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
