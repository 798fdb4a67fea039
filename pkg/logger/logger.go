// Package logger, uygulama genelinde kullanılan zap logger'ı kurar.
//
// Her bileşen kendi adıyla alt logger alır (log.Named("ws") gibi),
// böylece çıktıda "[ws]" benzeri prefix yerine "logger":"ws" alanı görünür.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/akinalp/realms/config"
)

// New, config'e göre production (JSON) veya development (console) logger döner.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	switch cfg.Format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	case "json", "":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}
