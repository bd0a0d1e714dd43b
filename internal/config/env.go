package config

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFiles are the dotenv files consulted, in order, by LoadEnv.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnv loads KEY=VALUE pairs from the dotenv files in dir. Variables
// already present in the process environment are never overridden, so
// the shell wins over .env, and .env wins over .env.local. Missing files
// are skipped; the names of the files that were loaded are returned.
func LoadEnv(dir string) ([]string, error) {
	var loaded []string
	for _, name := range EnvFiles {
		path := filepath.Join(dir, name)
		if err := godotenv.Load(path); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, err
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// ParseLogLevel resolves the effective log level. Verbose always wins;
// otherwise SKYPAGES_LOG_LEVEL (debug|info|warn|error) is honored.
func ParseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SKYPAGES_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
