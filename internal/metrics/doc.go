// Package metrics provides observability hooks for filter runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	proc := site.NewProcessor(cfg, chain)          // NoopRecorder
//	proc.Recorder = metrics.NewPrometheusRecorder(reg)
//
// The Prometheus implementation is exposed over HTTP with HTTPHandler when the
// watch command is given a metrics address.
package metrics
