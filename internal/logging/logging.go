// Package logging slog の既定ロガーを設定する
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel LOG_LEVEL の値を slog.Level に変換
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("不明なログレベルです: %q", level)
	}
}

// Setup w に出力するテキスト形式のロガーを既定に設定して返す
//
// 不明なレベルは INFO として扱い、警告を出す。
func Setup(level string, w io.Writer) *slog.Logger {
	lvl, err := ParseLevel(level)
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	if err != nil {
		logger.Warn("ログレベルの指定を無視しました", "error", err)
	}
	return logger
}
