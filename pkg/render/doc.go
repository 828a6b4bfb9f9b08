// Package render provides dom.Backend implementations and decorators.
//
// The concrete native renderer lives outside this module. This package
// supplies the pieces that sit between a dom.Manager and that renderer:
//
//   - Recorder captures every commit as serializable records
//   - Multi fans one commit out to several backends
//   - Logging logs each operation with log/slog
//   - Metrics counts operations and commits with Prometheus
//   - Tracing wraps every commit in an OpenTelemetry span
//
// Decorators compose:
//
//	rec := render.NewRecorder()
//	backend := render.NewTracing(render.NewMetrics(rec))
//	m := dom.NewManager(1, backend)
package render
