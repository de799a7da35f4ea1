// Package dedup implements the request deduplication cache.
//
// The cache maps a client-generated request identity to the outcome computed the
// first time that identity was processed, so a retried mutation is answered from
// memory instead of being applied again:
//   - entries expire a fixed TTL after insertion (lookups never extend it)
//   - capacity is bounded; the oldest insertion is evicted first
//   - all operations share one mutex
//
// The cache is an in-process, time-bounded record. It is not persisted and is
// not shared between server instances.
package dedup
