// Package logger configures the process-wide slog logger. Output goes to
// stderr so the drawing path printed on stdout stays scriptable.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

type Config struct {
	Verbose bool
	Writer  io.Writer // defaults to os.Stderr
}

var (
	mu     sync.RWMutex
	global = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Setup installs the global logger. Verbose enables debug-level records.
func Setup(cfg Config) {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})

	mu.Lock()
	global = slog.New(h)
	mu.Unlock()
}

// L returns the process-wide logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
