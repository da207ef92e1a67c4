// Package metrics exposes engine activity to Prometheus.
//
// Collector observes the event bus and the frame loop. Server serves the
// registry over HTTP together with a health check and a JSON dump of bus
// statistics.
package metrics
