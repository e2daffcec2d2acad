package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// consoleLogEncoding renders log lines as plain console text. The generated
// layout goes to stdout and must stay free of structured log noise, so the
// encoder drops every key except the message itself.
const consoleLogEncoding = "console"

// NewApplicationLogger builds the zap logger the CLI runs with: console
// encoding, message-only lines, info level and above.
func NewApplicationLogger() (*zap.Logger, error) {
	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Encoding = consoleLogEncoding
	loggerConfiguration.DisableCaller = true
	loggerConfiguration.DisableStacktrace = true
	loggerConfiguration.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	loggerConfiguration.EncoderConfig.TimeKey = ""
	loggerConfiguration.EncoderConfig.LevelKey = ""
	loggerConfiguration.EncoderConfig.NameKey = ""
	loggerConfiguration.EncoderConfig.CallerKey = ""
	loggerConfiguration.EncoderConfig.MessageKey = "message"
	loggerConfiguration.EncoderConfig.StacktraceKey = ""
	return loggerConfiguration.Build()
}
