// Package logging builds the zap loggers used across mcpchat.
package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/diogo/mcpchat/internal/config"
)

var (
	globalLogger *zap.Logger
	globalMu     sync.RWMutex
)

// New builds a logger from cfg. Output goes to cfg.File when set and to
// stderr otherwise.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	output := "stderr"
	if strings.TrimSpace(cfg.File) != "" {
		output = cfg.File
	}
	return build(cfg, output)
}

// NewForTUI builds a logger that never writes to the terminal. Without a
// log file it is a no-op logger, since stray output would corrupt the
// alternate screen.
func NewForTUI(cfg config.LogConfig) (*zap.Logger, error) {
	if strings.TrimSpace(cfg.File) == "" {
		logger := zap.NewNop()
		replaceGlobal(logger)
		return logger, nil
	}
	return build(cfg, cfg.File)
}

func build(cfg config.LogConfig, output string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := strings.ToLower(cfg.Encoding)
	if encoding != "json" {
		encoding = "console"
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = "time"
	encoderCfg.MessageKey = "msg"
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	if encoding == "console" {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{output},
		DisableCaller:     level != zapcore.DebugLevel,
		DisableStacktrace: true,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	logger = logger.Named("mcpchat")

	replaceGlobal(logger)
	return logger, nil
}

// L returns the most recently built logger, or a no-op logger if none
// has been built yet.
func L() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

func replaceGlobal(logger *zap.Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
	zap.ReplaceGlobals(logger)
}
