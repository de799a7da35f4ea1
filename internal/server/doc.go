// Package server exposes the subscription service over gRPC.
//
// Result mapping:
//
//	missing request id      -> InvalidArgument
//	unknown user/no samples -> NotFound
//	store fault             -> Internal
//	mutation outcome        -> OK, with outcome and message in the body
//
// Calls are served by a bounded pool of stream workers. The standard gRPC
// health service is registered alongside SubscriptionService.
package server
