// Package graph is the host application's hierarchical framework-element
// tree: framework elements, ports, aggregators and edges. Everything here
// is deliberately minimal — the scheduler core in internal/scheduler is
// what this repository is actually about.
package graph
