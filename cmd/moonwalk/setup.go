package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/moonwalk/internal/config"
	"github.com/vovakirdan/moonwalk/internal/core"
	"github.com/vovakirdan/moonwalk/internal/storage"
)

// openLogger writes to the log file because Bubble Tea owns the terminal.
// The returned closer is never nil.
func openLogger(path string) (*log.Logger, io.Closer) {
	path = expandPath(path)
	if path == "" {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return log.New(io.Discard), io.NopCloser(nil)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "moonwalk",
		Level:           log.DebugLevel,
	})
	return logger, f
}

// openStore opens the backend picked by the global flags.
func openStore() (storage.Backend, error) {
	return storage.OpenBackend(storage.Options{
		Kind:     flagStore,
		Path:     flagDBPath,
		AppName:  storage.DefaultAppName,
		RedisURL: flagRedisURL,
	})
}

// loadConfig loads the tuning, falling back to defaults with a warning.
func loadConfig() config.MoonWalkConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		return config.DefaultMoonWalkConfig()
	}
	return cfg
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
