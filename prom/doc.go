// Package prom exports session metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, _ := prom.NewCollector(reg, "fvecmat")
//	s, _ := fvecmat.Open(ctx, "out.mat", fvecmat.WithMetricsCollector(mc))
//	...
//	_ = prom.WriteTextfile("/var/lib/node_exporter/fvecmat.prom", reg)
//
// WriteTextfile produces a file for the node exporter textfile collector,
// which suits short-lived batch runs that are not scraped directly.
package prom
