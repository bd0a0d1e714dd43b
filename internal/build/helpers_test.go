package build

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/skypages/internal/bundle"
	"git.home.luguber.info/inful/skypages/internal/bundler"
	"git.home.luguber.info/inful/skypages/internal/generator"
	"git.home.luguber.info/inful/skypages/internal/git"
	"git.home.luguber.info/inful/skypages/internal/metrics"
	"git.home.luguber.info/inful/skypages/internal/paths"
	"git.home.luguber.info/inful/skypages/internal/staging"
	"git.home.luguber.info/inful/skypages/internal/workspace"
)

// callLog is shared by the filesystem and bundler doubles so tests can
// assert ordering across them.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) indexOf(call string) int {
	for i, c := range l.snapshot() {
		if c == call {
			return i
		}
	}
	return -1
}

func (l *callLog) countAfter(call string, after int) int {
	n := 0
	for i, c := range l.snapshot() {
		if i > after && c == call {
			n++
		}
	}
	return n
}

type spyFS struct {
	log      *callLog
	files    map[string][]byte
	json     map[string]any
	copyErr  error
	copyArgs [][2]string
}

func newSpyFS(log *callLog) *spyFS {
	return &spyFS{log: log, files: map[string][]byte{}, json: map[string]any{}}
}

func (s *spyFS) CopyDir(src, dst string) error {
	s.log.add("copy:" + src)
	s.copyArgs = append(s.copyArgs, [2]string{src, dst})
	return s.copyErr
}

func (s *spyFS) WriteFile(path string, data []byte) error {
	s.log.add("write:" + path)
	s.files[path] = data
	return nil
}

func (s *spyFS) WriteJSON(path string, v any) error {
	s.log.add("json:" + path)
	s.json[path] = v
	return nil
}

func (s *spyFS) MkdirAll(path string, _ os.FileMode) error {
	s.log.add("mkdir:" + path)
	return nil
}

func (s *spyFS) RemoveAll(path string) error {
	s.log.add("remove:" + path)
	return nil
}

type stubGenerator struct {
	source     string
	importPath string
}

func (g *stubGenerator) Source(_ []generator.Entry, _, _, importPath string, _ generator.Options) (string, error) {
	g.importPath = importPath
	return g.source, nil
}

type spyStats struct {
	report bundler.StatsJSON
	calls  int
}

func (s *spyStats) ToJSON() bundler.StatsJSON {
	s.calls++
	return s.report
}

type spyBundler struct {
	log   *callLog
	stats bundler.Stats
	err   error
	runs  int
}

func (b *spyBundler) Run(context.Context) (bundler.Stats, error) {
	b.runs++
	b.log.add("run")
	return b.stats, b.err
}

type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

func (h *recordingHandler) messages(msg string) []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []slog.Record
	for _, r := range h.records {
		if r.Message == msg {
			out = append(out, r)
		}
	}
	return out
}

type countingRecorder struct {
	metrics.NoopRecorder
	outcomes map[string]int
	messages map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: map[string]int{}, messages: map[string]int{}}
}

func (r *countingRecorder) IncBuildOutcome(outcome string) { r.outcomes[outcome]++ }

func (r *countingRecorder) AddBundlerMessages(kind string, n int) { r.messages[kind] += n }

type fixture struct {
	layout   *paths.Layout
	log      *callLog
	fs       *spyFS
	gen      *stubGenerator
	bundler  *spyBundler
	handler  *recordingHandler
	recorder *countingRecorder
	built    []*bundle.Config
	svc      *DefaultService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	layout, err := paths.NewLayout(t.TempDir(), "", "")
	require.NoError(t, err)

	f := &fixture{
		layout:   layout,
		log:      &callLog{},
		gen:      &stubGenerator{source: "TESTSOURCE"},
		handler:  &recordingHandler{},
		recorder: newCountingRecorder(),
	}
	f.fs = newSpyFS(f.log)
	f.bundler = &spyBundler{log: f.log, stats: &spyStats{}}

	checker := paths.CheckerFunc(func(string) bool { return false })
	f.svc = NewService(layout).
		WithLogger(slog.New(f.handler)).
		WithResolver(bundle.NewResolver(layout, checker)).
		WithStager(staging.NewStager(layout, f.gen, staging.WithFileSystem(f.fs))).
		WithWorkspaceFactory(func() *workspace.Manager {
			return workspace.NewManager(layout.SpaPathTemp(), f.fs)
		}).
		WithBundlerFactory(func(cfg *bundle.Config) bundler.Bundler {
			f.built = append(f.built, cfg)
			return f.bundler
		}).
		WithDiscover(func(string) ([]generator.Entry, error) { return nil, nil }).
		WithRevisionFunc(func(string) (git.Revision, error) { return git.Revision{}, git.ErrNotRepository }).
		WithIDFunc(func() string { return "build-test" }).
		WithRecorder(f.recorder)
	return f
}
