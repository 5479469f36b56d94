// Package cli timely コマンドの定義
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/k-negishi/timely/internal/config"
	"github.com/k-negishi/timely/internal/logging"
)

// RootOptions すべてのコマンドで使うグローバルフラグ
type RootOptions struct {
	Storage     string
	StoragePath string
	RedisURL    string
	LogLevel    string

	// LoadConfig 設定の読み込み。テストで差し替える
	LoadConfig func(ctx context.Context) (*config.Config, error)

	cfg *config.Config
}

// NewRootCommand timely のルートコマンドを作成
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{LoadConfig: config.Load})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timely",
		Short: "timely - a stopwatch for your working hours",
		Long: `Record work sessions with a stopwatch and review them grouped by day.

Sessions are stored as a single JSON document in the configured backend
(memory, file, sqlite or redis).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "storage backend (memory|file|sqlite|redis); overrides TIMELY_STORAGE")
	cmd.PersistentFlags().StringVar(&opts.StoragePath, "path", "", "file or sqlite path; overrides TIMELY_STORAGE_PATH")
	cmd.PersistentFlags().StringVar(&opts.RedisURL, "redis-url", "", "redis URL; overrides REDIS_URL")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (DEBUG|INFO|WARN|ERROR); overrides LOG_LEVEL")

	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRenameCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewNotifyCommand(opts))

	return cmd
}

// load 設定を読み込み、フラグで上書きしてロガーを初期化
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := o.LoadConfig(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "設定の読み込みに失敗しました", err)
	}

	if o.Storage != "" {
		cfg.StorageBackend = o.Storage
	}
	if o.StoragePath != "" {
		cfg.StoragePath = o.StoragePath
	}
	if o.RedisURL != "" {
		cfg.RedisURL = o.RedisURL
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	logging.Setup(cfg.LogLevel, cmd.ErrOrStderr())
	o.cfg = cfg
	return nil
}
