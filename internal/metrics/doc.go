// Package metrics records build and stage metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks:
//
//	svc := build.NewService(layout).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// One-shot builds export the registry with WriteTextfile (node exporter
// textfile collector format); watch mode can serve it over HTTP with
// HTTPHandler.
package metrics
