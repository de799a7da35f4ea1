// Package retry implements the client-side retry discipline for remote calls.
//
// A call is classified after each attempt:
//   - success: the response is returned
//   - retryable: deadline exceeded or unavailable; the identical request is
//     re-issued after a fixed delay, up to the attempt cap
//   - terminal: any other failure; returned immediately
//
// Callers capture the request (including its request identity) in the closure
// passed to Do, so every attempt sends the same payload. Read-only calls use Once
// and are never retried.
package retry
