package utils

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: human readable text locally, JSON elsewhere
func NewLogger(env string) *slog.Logger {
	if env == "local" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Err returns the "error" attribute for err
//
//	log.Error("failed to create booking", utils.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
