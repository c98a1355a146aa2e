package main

import (
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

func setupLogger(level, format string) *slog.Logger {
	levels := map[string]charmlog.Level{
		"debug": charmlog.DebugLevel,
		"info":  charmlog.InfoLevel,
		"warn":  charmlog.WarnLevel,
		"error": charmlog.ErrorLevel,
	}
	lvl, ok := levels[level]
	if !ok {
		lvl = charmlog.InfoLevel
	}
	formatter := charmlog.TextFormatter
	if format == "json" {
		formatter = charmlog.JSONFormatter
	}

	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           lvl,
		Formatter:       formatter,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
