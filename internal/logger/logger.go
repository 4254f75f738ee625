package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mintly/mintly-api/internal/config"
)

var level = zap.NewAtomicLevel()

// Init replaces the global zap logger. Production environments get a JSON
// encoder, everything else the human friendly console encoder. When conf.File
// is set, logs are also written to a rotating file.
func Init(env string, conf *config.LogConfig) error {
	if conf == nil {
		conf = &config.LogConfig{Level: "info"}
	}

	if err := SetLevel(conf.Level); err != nil {
		return err
	}

	var encoderConf zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if env == "production" {
		encoderConf = zap.NewProductionEncoderConfig()
		encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConf)
	} else {
		encoderConf = zap.NewDevelopmentEncoderConfig()
		encoderConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConf)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if conf.File != "" {
		fileConf := zap.NewProductionEncoderConfig()
		fileConf.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileConf),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   conf.File,
				MaxSize:    conf.MaxSizeMB,
				MaxBackups: conf.MaxBackups,
				MaxAge:     conf.MaxAgeDays,
				Compress:   true,
			}),
			level,
		))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	zap.ReplaceGlobals(l.With(zap.String("env", env)))

	return nil
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(lvl string) error {
	if lvl == "" {
		lvl = "info"
	}

	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel -> %w", err)
	}
	level.SetLevel(parsed)

	return nil
}

// Level returns the current level of the global logger.
func Level() zapcore.Level {
	return level.Level()
}
