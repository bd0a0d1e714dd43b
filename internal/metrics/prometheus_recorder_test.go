package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("staging", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("staging", ResultSuccess)
	pr.IncBuildOutcome("clean")
	pr.AddBundlerMessages("warnings", 2)
	pr.AddBundlerMessages("errors", 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration("staging", time.Second)
	pr.ObserveBuildDuration(time.Second)
	pr.IncStageResult("staging", ResultFatal)
	pr.IncBuildOutcome("fatal")
	pr.AddBundlerMessages("errors", 1)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome("warnings")

	path := filepath.Join(t.TempDir(), "skypages.prom")
	if err := WriteTextfile(reg, path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `skypages_build_outcomes_total{outcome="warnings"} 1`) {
		t.Fatalf("textfile missing outcome counter:\n%s", data)
	}
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome("clean")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "skypages_build_outcomes_total") {
		t.Fatalf("body missing metric:\n%s", rec.Body.String())
	}
}
