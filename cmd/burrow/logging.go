package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/burrow/internal/config"
)

// openLogger creates the session logger. The TUI owns the terminal, so logs
// go to a file; "-" discards them.
func openLogger(path, level string) (*log.Logger, io.Closer, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	if path == "-" {
		return log.New(io.Discard), io.NopCloser(nil), nil
	}
	if path == "" {
		dir := config.UserDir()
		if dir == "" {
			return log.New(io.Discard), io.NopCloser(nil), nil
		}
		path = filepath.Join(dir, "burrow.log")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "burrow",
		Level:           lvl,
	})
	return logger, f, nil
}
