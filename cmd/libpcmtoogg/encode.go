package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/haivivi/pcmtoogg/pkg/pcmtoogg"
)

// LogLevelEnv selects the library's log level (debug, info, warn, error).
// Logs go to stderr; the default is warn.
const LogLevelEnv = "PCMTOOGG_LOG_LEVEL"

var logger = newLogger(os.Getenv(LogLevelEnv))

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelWarn
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			lvl = slog.LevelWarn
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// encode runs one encode request. Failures are logged and reported as
// !ok; the caller only sees a missing output.
func encode(samples []float32, channels, sampleRate int, quality float32) ([]byte, bool) {
	out, err := pcmtoogg.Encode(samples, len(samples), channels, sampleRate, quality,
		pcmtoogg.WithLogger(logger))
	if err != nil {
		return nil, false
	}
	data := out.Data()
	out.Release()
	return data, true
}
