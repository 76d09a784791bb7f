// Package metrics provides compile-run observability for nile.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks:
//
//	driver := compile.NewDriver(cfg, registry, runner, scanner)
//	driver.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The CLI has no long-running HTTP endpoint to scrape, so PrometheusRecorder
// is exported with WriteTextfile for the node-exporter textfile collector.
package metrics
