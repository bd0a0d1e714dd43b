package metrics

import (
	"testing"
	"time"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("staging", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("staging", ResultSuccess)
	r.IncBuildOutcome("clean")
	r.AddBundlerMessages("errors", 3)
}
