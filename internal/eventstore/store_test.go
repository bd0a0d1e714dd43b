package eventstore

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"
)

const testBuildID = "build-123"

func TestEventStoreAppendAndRetrieve(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	payload := []byte(`{"test": "data"}`)

	if err := store.Append(ctx, testBuildID, "TestEvent", payload, map[string]string{"key": "value"}); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}

	events, err := store.GetByBuildID(ctx, testBuildID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.BuildID() != testBuildID {
		t.Errorf("expected build_id %s, got %s", testBuildID, event.BuildID())
	}
	if event.Type() != "TestEvent" {
		t.Errorf("expected event_type TestEvent, got %s", event.Type())
	}
	if !bytes.Equal(event.Payload(), payload) {
		t.Errorf("expected payload %s, got %s", payload, event.Payload())
	}
	if event.Metadata()["key"] != "value" {
		t.Errorf("expected metadata key=value, got %v", event.Metadata())
	}
}

func TestEventStoreGetRange(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	before := time.Now().Add(-time.Minute)
	for _, id := range []string{"a", "b"} {
		if err := store.Append(ctx, id, TypeBuildStarted, nil, nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := store.GetRange(ctx, before, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].BuildID() != "a" || events[1].BuildID() != "b" {
		t.Errorf("events out of order: %s, %s", events[0].BuildID(), events[1].BuildID())
	}

	events, err = store.GetRange(ctx, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events in future window, got %d", len(events))
	}
}

func TestEventStorePersistsToFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache", DefaultDBFile)
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Append(t.Context(), testBuildID, TypeBuildStarted, []byte(`{}`), nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	events, err := reopened.GetByBuildID(t.Context(), testBuildID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected persisted event, got %d", len(events))
	}
}
