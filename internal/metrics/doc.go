// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Mutation outcomes and cache replays per operation
//   - gRPC handler latency by method and status code
//   - Deduplication cache size, hits, misses, evictions, expirations
//   - Client retry attempts by classification
//
// Collectors are registered on an injected registry; nothing is registered globally.
// All Metrics methods are safe to call on a nil receiver.
package metrics
