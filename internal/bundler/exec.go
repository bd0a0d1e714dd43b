package bundler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/skypages/internal/bundle"
	"git.home.luguber.info/inful/skypages/internal/logfields"
)

// DefaultCommand is the bundler invocation used when none is configured.
var DefaultCommand = []string{"webpack"}

// ExecBundler runs the bundler as a child process. The resolved
// configuration is written as a config module (see ConfigModule) to a
// temporary file outside the staging workspace and passed with --config;
// stats are read from stdout (--json).
type ExecBundler struct {
	cfg     *bundle.Config
	command []string
	dir     string
	logger  *slog.Logger
}

// NewExecFactory returns a Factory producing ExecBundlers running command.
// An empty command uses DefaultCommand.
func NewExecFactory(command []string, logger *slog.Logger) Factory {
	if len(command) == 0 {
		command = DefaultCommand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(cfg *bundle.Config) Bundler {
		return &ExecBundler{cfg: cfg, command: command, dir: cfg.Context, logger: logger}
	}
}

// Run implements Bundler.
func (b *ExecBundler) Run(ctx context.Context) (Stats, error) {
	bin, err := exec.LookPath(b.command[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBundlerNotFound, err)
	}

	configPath, err := writeConfig(b.cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = os.Remove(configPath)
	}()

	args := append(append([]string{}, b.command[1:]...), "--config", configPath, "--json")
	// #nosec G204 -- the command comes from operator configuration
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = b.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	b.logger.Debug("Invoking bundler",
		logfields.Command(strings.Join(append([]string{bin}, args...), " ")),
		logfields.Path(b.dir))
	runErr := cmd.Run()

	if errStr := stderr.String(); errStr != "" {
		b.logger.Debug("bundler stderr", "error_output", errStr)
	}

	// The bundler exits non-zero when compilation reports errors but still
	// prints its stats; only a missing report is fatal.
	stats, decodeErr := DecodeStats(stdout.Bytes())
	if decodeErr == nil {
		return stats, nil
	}
	if runErr != nil {
		if output := strings.TrimSpace(stderr.String()); output != "" {
			return nil, fmt.Errorf("%w: %w: %s", ErrBundlerFailed, runErr, output)
		}
		return nil, fmt.Errorf("%w: %w", ErrBundlerFailed, runErr)
	}
	return nil, decodeErr
}

func writeConfig(cfg *bundle.Config) (string, error) {
	data, err := ConfigModule(cfg)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "skypages-bundle-*.js")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	return f.Name(), nil
}

// rawStats accepts both message shapes bundlers emit: plain strings and
// objects carrying a message field.
type rawStats struct {
	Errors   []json.RawMessage `json:"errors"`
	Warnings []json.RawMessage `json:"warnings"`
}

// DecodeStats parses a bundler stats document.
func DecodeStats(data []byte) (Stats, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrStatsDecode)
	}
	var raw rawStats
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatsDecode, err)
	}
	errs, err := messages(raw.Errors)
	if err != nil {
		return nil, err
	}
	warns, err := messages(raw.Warnings)
	if err != nil {
		return nil, err
	}
	return StaticStats{Errors: errs, Warnings: warns}, nil
}

func messages(raw []json.RawMessage) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(r, &obj); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStatsDecode, err)
		}
		out = append(out, obj.Message)
	}
	return out, nil
}
