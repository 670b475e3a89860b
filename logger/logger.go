package logger

import (
	"go.uber.org/zap"
)

var log = zap.NewNop()

// Init replaces the no-op logger. Debug mode uses the human friendly development encoder.
func Init(debug bool) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	log = l
}

func L() *zap.Logger { return log }

func Debug(msg string, fields ...zap.Field) { log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field) { log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field) { log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }

func Sync() { _ = log.Sync() }
