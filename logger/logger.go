// Package logger builds the application logger: console output for the
// interactive display plus an optional JSON file sink for the trade log.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"walletwatch/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a zap.Logger configured from the given options. Every record
// goes to stdout; when a trades log file is configured, records are also
// appended there as JSON lines with rotation.
func New(opts config.LogConfig) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(opts.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.Lock(os.Stdout),
			lvl,
		),
	}

	if opts.TradesLog != "" {
		dir := filepath.Dir(opts.TradesLog)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.TradesLog,
			MaxSize:    10, // MB before rotation
			MaxBackups: 5,
			MaxAge:     7, // days
			Compress:   true,
		})

		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			fileWriter,
			lvl,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
