// Package service implements the subscription handlers.
//
// Mutations (Register, Update, Delete) are idempotent per request identity:
//
//	lookup identity -> validate email -> transaction -> cache outcome
//
// Deterministic outcomes, including rejections, are cached under the identity
// so a replay is answered identically without touching the store. Store faults
// are returned as ErrInternal and never cached.
//
// Concurrent calls sharing an identity are collapsed into one execution; calls
// with distinct identities run in parallel and rely on the store's transactions.
//
// Reads (Login, LatestValue, AverageValue) carry no identity and bypass the cache.
package service
