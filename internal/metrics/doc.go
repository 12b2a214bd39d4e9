// Package metrics exposes the pipeline's Prometheus collectors. All
// collectors register on the default registry; the daemon serves them
// alongside the health endpoint.
package metrics
