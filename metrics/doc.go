// Package metrics exports kmcluster engine activity as Prometheus metrics.
package metrics
