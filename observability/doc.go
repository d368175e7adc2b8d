// Package observability provides OpenTelemetry tracing and metrics for
// pipeline runs.
//
// Telemetry is a lifecycle component. When enabled it installs OTLP/HTTP
// trace and metric exporters on Start and flushes them on Stop; when
// disabled the global no-op providers stay in place and every call below
// is free.
//
//	tel := observability.NewComponent(cfg.Observability, "bytepipe", version.Version, cfg.Environment, log)
//	app.RegisterComponent(tel)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun)
//	defer span.End()
//
//	metrics, err := observability.NewMetrics(observability.Meter("bytepipe"))
//	metrics.RecordBytes(ctx, "reader", n)
package observability
