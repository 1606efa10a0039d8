// Package logger builds the process-wide zap logger.
package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console zap logger and installs it as the global logger
// so packages without an injected logger can use zap.L(). Stdlib log
// output is redirected through it as well.
func New(env string) *zap.Logger {
	level := zapcore.InfoLevel
	if env == "dev" {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.AddSync(os.Stderr),
		level,
	)

	l := zap.New(core, zap.AddCaller())

	zap.ReplaceGlobals(l)
	log.SetOutput(zap.NewStdLog(l).Writer())

	return l
}
