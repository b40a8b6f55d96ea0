// Package metrics collects runtime memory snapshots, prometheus counters for
// executed commands and series tables, and otel spans around commands.
package metrics
