// Package metrics provides launcher observability hooks.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless a Prometheus listener is
// configured:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	srv := metrics.NewServer("127.0.0.1:9464", "/metrics", reg)
package metrics
