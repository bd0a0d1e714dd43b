package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment variables consulted by RuntimeOptions.ApplyEnv.
const (
	EnvProjectRoot = "SKYPAGES_PROJECT_ROOT"
	EnvInstallDir  = "SKYPAGES_INSTALL_DIR"
	EnvStagingDir  = "SKYPAGES_STAGING_DIR"
	EnvBundler     = "SKYPAGES_BUNDLER"
	EnvHistoryDB   = "SKYPAGES_HISTORY_DB"
	EnvMetricsFile = "SKYPAGES_METRICS_FILE"
)

// HistoryDirName is the per-project directory holding the build history.
const HistoryDirName = ".skypages"

// RuntimeOptions are process-level settings that do not belong in the
// project configuration file.
type RuntimeOptions struct {
	ProjectRoot string
	InstallDir  string
	StagingDir  string
	ConfigPath  string
	// Bundler is the bundler command line, split on whitespace.
	Bundler     []string
	HistoryDB   string
	MetricsFile string
	Verbose     bool
}

// ApplyEnv fills fields still unset from SKYPAGES_* variables, so values
// given on the command line win over the environment.
func (o *RuntimeOptions) ApplyEnv() {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = strings.TrimSpace(os.Getenv(key))
		}
	}
	fill(&o.ProjectRoot, EnvProjectRoot)
	fill(&o.InstallDir, EnvInstallDir)
	fill(&o.StagingDir, EnvStagingDir)
	fill(&o.HistoryDB, EnvHistoryDB)
	fill(&o.MetricsFile, EnvMetricsFile)
	if len(o.Bundler) == 0 {
		if v := strings.Fields(os.Getenv(EnvBundler)); len(v) > 0 {
			o.Bundler = v
		}
	}
}

// ConfigFile returns the project configuration path, defaulting to
// DefaultConfigFile in root.
func (o RuntimeOptions) ConfigFile(root string) string {
	switch {
	case o.ConfigPath == "":
		return filepath.Join(root, DefaultConfigFile)
	case filepath.IsAbs(o.ConfigPath):
		return o.ConfigPath
	default:
		return filepath.Join(root, o.ConfigPath)
	}
}

// HistoryPath returns the history database path, defaulting to
// <root>/.skypages/history.db.
func (o RuntimeOptions) HistoryPath(root string) string {
	if o.HistoryDB != "" {
		return o.HistoryDB
	}
	return filepath.Join(root, HistoryDirName, "history.db")
}
