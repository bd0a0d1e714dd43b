package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/skypages/internal/build"
	"git.home.luguber.info/inful/skypages/internal/config"
	"git.home.luguber.info/inful/skypages/internal/eventstore"
	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
	"git.home.luguber.info/inful/skypages/internal/paths"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newProject lays out a consuming project with one page and an installed package.
func newProject(t *testing.T, configDoc string) config.RuntimeOptions {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "app", "about", "index.html"), "<h1>About</h1>")
	writeFile(t, filepath.Join(root, "node_modules", paths.PackageName, "src", "main-internal.aot.ts"), "// entry")
	writeFile(t, filepath.Join(root, "node_modules", paths.PackageName, "src", "app", "app.module.ts"), "// app")
	if configDoc != "" {
		writeFile(t, filepath.Join(root, config.DefaultConfigFile), configDoc)
	}
	return config.RuntimeOptions{ProjectRoot: root}
}

func TestRunModule_RendersEntries(t *testing.T) {
	in := `{"SKY_PAGES": {"cwd": "/proj", "importPath": "blackbaud-skyux2/dist", "entries": [
		{"routePath": "about", "templatePath": "about/index.html", "componentName": "SPR_0_IndexComponent"}
	]}}`
	var out bytes.Buffer
	require.NoError(t, RunModule(strings.NewReader(in), &out))

	src := out.String()
	assert.Contains(t, src, "SPR_0_IndexComponent")
	assert.Contains(t, src, "export class SkyPagesModule { }")
}

func TestRunModule_InvalidOptions(t *testing.T) {
	err := RunModule(strings.NewReader("not json"), io.Discard)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestRunBuild_DryRunDefaultMode(t *testing.T) {
	opts := newProject(t, "")
	opts.MetricsFile = filepath.Join(t.TempDir(), "skypages.prom")

	result, err := RunBuild(context.Background(), opts, "", serviceOptions{dryRun: true}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, build.OutcomeClean, result.Outcome)

	metricsText, err := os.ReadFile(opts.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metricsText), `skypages_build_outcomes_total{outcome="clean"} 1`)

	_, err = os.Stat(filepath.Join(opts.ProjectRoot, paths.StagingDirName))
	assert.True(t, os.IsNotExist(err), "default builds never stage")
}

func TestRunBuild_DryRunAoTStagesAndCleansUp(t *testing.T) {
	opts := newProject(t, `{"blackbaud-sky-pages-out-skyux2": {"compileMode": "aot"}}`)

	result, err := RunBuild(context.Background(), opts, "", serviceOptions{dryRun: true}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, build.OutcomeClean, result.Outcome)

	_, err = os.Stat(filepath.Join(opts.ProjectRoot, paths.StagingDirName))
	assert.True(t, os.IsNotExist(err), "staging workspace removed after the build")

	var out bytes.Buffer
	require.NoError(t, RunHistory(context.Background(), opts.HistoryPath(opts.ProjectRoot), 10, true, &out))
	var builds []eventstore.BuildSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &builds))
	require.Len(t, builds, 1)
	assert.Equal(t, string(build.OutcomeClean), builds[0].Status)
	assert.Equal(t, "aot", builds[0].CompileMode)
	assert.Equal(t, 1, builds[0].Entries)

	out.Reset()
	require.NoError(t, RunHistoryBuild(context.Background(), opts.HistoryPath(opts.ProjectRoot), builds[0].BuildID, false, &out))
	assert.Contains(t, out.String(), builds[0].BuildID)
	assert.Regexp(t, `Status:\s+clean`, out.String())
	assert.Regexp(t, `Compile mode:\s+aot`, out.String())
}

func TestRunBuild_CompileModeOverride(t *testing.T) {
	opts := newProject(t, "")
	opts.HistoryDB = filepath.Join(t.TempDir(), "h.db")

	result, err := RunBuild(context.Background(), opts, config.CompileModeAoT, serviceOptions{dryRun: true, noHistory: true}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "aot", string(result.Variant))

	_, err = os.Stat(opts.HistoryDB)
	assert.True(t, os.IsNotExist(err), "history disabled")
}

func TestRunBuild_AoTWithoutInstalledPackageIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "app", "index.html"), "<p/>")
	opts := config.RuntimeOptions{ProjectRoot: root}

	result, err := RunBuild(context.Background(), opts, config.CompileModeAoT, serviceOptions{dryRun: true, noHistory: true}, quietLogger())
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, build.OutcomeFatal, result.Outcome)
	assert.Equal(t, 9, errors.NewCLIErrorAdapter(false, quietLogger()).ExitCodeFor(err))

	_, statErr := os.Stat(filepath.Join(root, paths.StagingDirName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadProject(t *testing.T) {
	opts := newProject(t, "")
	layout, err := Layout(opts)
	require.NoError(t, err)

	cfg, err := LoadProject(opts, layout)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg, "missing default config yields defaults")

	opts.ConfigPath = "custom.json"
	_, err = LoadProject(opts, layout)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigNotFound)
}

func TestRunHistory_EmptyDatabase(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunHistory(context.Background(), filepath.Join(t.TempDir(), "missing.db"), 10, false, &out))
	assert.Equal(t, "No builds recorded.\n", out.String())
}

func TestRunHistoryBuild_Unknown(t *testing.T) {
	err := RunHistoryBuild(context.Background(), filepath.Join(t.TempDir(), "missing.db"), "nope", false, io.Discard)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestCompileModeOverride(t *testing.T) {
	mode, err := compileModeOverride("")
	require.NoError(t, err)
	assert.Empty(t, mode)

	mode, err = compileModeOverride("AOT")
	require.NoError(t, err)
	assert.Equal(t, config.CompileModeAoT, mode)

	_, err = compileModeOverride("eager")
	require.Error(t, err)
}

func TestCLI_ParsesBuildFlags(t *testing.T) {
	root := t.TempDir()
	var cli CLI
	parser, err := kong.New(&cli, kong.Bind(&Global{}), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--project-root", root, "build", "--dry-run", "--compile-mode", "aot", "--bundler", "npx webpack"})
	require.NoError(t, err)

	assert.True(t, cli.Build.DryRun)
	assert.Equal(t, "aot", cli.Build.CompileMode)
	assert.Equal(t, root, cli.ProjectRoot)

	opts := cli.Runtime()
	cli.Build.apply(&opts)
	assert.Equal(t, []string{"npx", "webpack"}, opts.Bundler)
}
