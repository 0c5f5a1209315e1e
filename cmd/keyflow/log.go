package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogLevel = zapcore.WarnLevel

// newLogger writes console-encoded diagnostics to w. An unparsable level falls
// back to warn.
func newLogger(level string, w io.Writer) *zap.SugaredLogger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = defaultLogLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)

	lg := zap.New(core).Sugar()
	if err != nil && level != "" {
		lg.Warnw("invalid log level, using default", "value", level, "default", defaultLogLevel.String())
	}
	return lg
}
