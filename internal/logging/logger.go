package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the service logger: JSON to a size-rotated file plus
// a console mirror, so `docker logs` and the on-disk history agree.
func NewLogger(logDir string, debug bool) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "svitlobot.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), fileSink, level),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(os.Stdout), level),
	)
	return zap.New(core), nil
}
