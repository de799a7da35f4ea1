// Package api defines the SubscriptionService wire contract and its client.
//
// The service is carried over gRPC with a JSON codec, so messages are plain
// structs:
//
//	tickerwatch.v1.SubscriptionService/RegisterUser
//	tickerwatch.v1.SubscriptionService/UpdateUser
//	tickerwatch.v1.SubscriptionService/DeleteUser
//	tickerwatch.v1.SubscriptionService/LoginUser
//	tickerwatch.v1.SubscriptionService/GetLatestValue
//	tickerwatch.v1.SubscriptionService/GetAverageValue
//
// Mutations carry a request_id. The client retries them on deadline and
// unavailable errors with the same identity; reads are sent once.
package api
