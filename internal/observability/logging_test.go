package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestWithBuildID(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-123")

	lc := GetContext(ctx)
	if lc.BuildID != "build-123" {
		t.Errorf("expected build-123, got %s", lc.BuildID)
	}
}

func TestWithStage(t *testing.T) {
	ctx := WithStage(context.Background(), "stage_workspace")

	lc := GetContext(ctx)
	if lc.Stage != "stage_workspace" {
		t.Errorf("expected stage_workspace, got %s", lc.Stage)
	}
}

func TestMultipleContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithBuildID(ctx, "b1")
	ctx = WithStage(ctx, "bundle")
	ctx = WithRevision(ctx, "deadbeef")

	lc := GetContext(ctx)
	if lc.BuildID != "b1" || lc.Stage != "bundle" || lc.Revision != "deadbeef" {
		t.Fatalf("unexpected context: %+v", lc)
	}
	if got := len(Attrs(ctx)); got != 3 {
		t.Fatalf("expected 3 attrs, got %d", got)
	}
}

func TestLogIncludesContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithBuildID(context.Background(), "b42")
	Log(ctx, logger, slog.LevelInfo, "staging", slog.String("extra", "x"))

	out := buf.String()
	for _, want := range []string{"build_id=b42", "msg=staging", "extra=x"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
}

func TestAttrsEmptyContext(t *testing.T) {
	if got := Attrs(context.Background()); len(got) != 0 {
		t.Fatalf("expected no attrs, got %v", got)
	}
}
