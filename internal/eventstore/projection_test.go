package eventstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordAll(t *testing.T, store Store, events ...Event) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, Record(t.Context(), store, e))
	}
}

func TestProjection_RebuildFromStore(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	started, err := NewBuildStarted("b1", BuildStartedMeta{Mode: "basic", CompileMode: "aot", Revision: "deadbeef"})
	require.NoError(t, err)
	staged, err := NewStagingCompleted("b1", "/ws", 4, 0)
	require.NoError(t, err)
	done, err := NewBundleCompleted("b1", BundleReport{Outcome: "errors", Errors: []string{"e1", "e2"}, Warnings: []string{"w"}})
	require.NoError(t, err)

	started2, err := NewBuildStarted("b2", BuildStartedMeta{Mode: "advanced", CompileMode: "default"})
	require.NoError(t, err)
	failed, err := NewBuildFailed("b2", "bundle", "bundler executable not found")
	require.NoError(t, err)

	recordAll(t, store, started, staged, done, started2, failed)

	p := NewBuildHistoryProjection(store, 10)
	require.NoError(t, p.Rebuild(t.Context()))

	b1, ok := p.GetBuild("b1")
	require.True(t, ok)
	assert.Equal(t, "errors", b1.Status)
	assert.Equal(t, 2, b1.ErrorCount)
	assert.Equal(t, 1, b1.WarningCount)
	assert.Equal(t, 4, b1.Entries)
	assert.Equal(t, "deadbeef", b1.Revision)
	assert.NotNil(t, b1.CompletedAt)

	b2, ok := p.GetBuild("b2")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, b2.Status)
	assert.Equal(t, "bundle", b2.ErrorStage)

	assert.Len(t, p.GetHistory(), 2)
}

func TestProjection_HistoryBounded(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	for _, id := range []string{"a", "b", "c"} {
		e, err := NewBuildStarted(id, BuildStartedMeta{})
		require.NoError(t, err)
		recordAll(t, store, e)
	}
	p := NewBuildHistoryProjection(store, 2)
	require.NoError(t, p.Rebuild(t.Context()))

	history := p.GetHistory()
	require.Len(t, history, 2)
	for _, s := range history {
		assert.Equal(t, StatusRunning, s.Status)
	}
}

func TestProjection_IgnoresEventsWithoutBuildID(t *testing.T) {
	p := NewBuildHistoryProjection(nil, 0)
	p.applyEventLocked(&BaseEvent{EventType: TypeBuildStarted})
	assert.Empty(t, p.GetHistory())
}
