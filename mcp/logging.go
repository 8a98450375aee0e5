package mcp

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the server logger. With a log file it logs at debug
// level to that file, otherwise at info level to stderr. The returned
// writer is the raw log destination and closeLog releases it.
func NewLogger(logFilePath string) (logger *slog.Logger, output io.Writer, closeLog func() error, err error) {
	var slogHandler slog.Handler
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		closeLog = file.Close
		slogHandler = slog.NewTextHandler(output, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		output = os.Stderr
		closeLog = func() error { return nil }
		slogHandler = slog.NewTextHandler(output, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(slogHandler), output, closeLog, nil
}
