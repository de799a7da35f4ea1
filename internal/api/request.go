package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rickgao/tickerwatch/internal/retry"
)

// ErrUnreachable is returned when every attempt of a call failed with a
// transient transport error.
var ErrUnreachable = retry.ErrUnreachable

// IsNotFound reports whether err is a not-found answer from the server.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// IsUnreachable reports whether err means the server could not be reached.
func IsUnreachable(err error) bool {
	if errors.Is(err, retry.ErrUnreachable) {
		return true
	}
	return retry.Classify(err) == retry.Retryable
}

// invoke performs one unary call.
func invoke[Req any, Resp any](ctx context.Context, c *Client, method string, req *Req) (*Resp, error) {
	resp := new(Resp)
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// mutate sends req until it succeeds or fails terminally. Every attempt
// carries the same payload, including its request identity.
func mutate[Req any](ctx context.Context, c *Client, name, method string, req *Req) (*MutationResponse, error) {
	return retry.Do(ctx, c.retrier, name, func(ctx context.Context) (*MutationResponse, error) {
		return invoke[Req, MutationResponse](ctx, c, method, req)
	})
}

// read sends req once.
func read[Req any, Resp any](ctx context.Context, c *Client, name, method string, req *Req) (*Resp, error) {
	return retry.Once(ctx, c.retrier, name, func(ctx context.Context) (*Resp, error) {
		return invoke[Req, Resp](ctx, c, method, req)
	})
}

// RegisterUser registers email with ticker under requestID.
func (c *Client) RegisterUser(ctx context.Context, requestID, email, ticker string) (*MutationResponse, error) {
	return mutate(ctx, c, "register", MethodRegisterUser, &RegisterUserRequest{
		Email:     email,
		Ticker:    ticker,
		RequestID: requestID,
	})
}

// UpdateUser changes the ticker of email under requestID.
func (c *Client) UpdateUser(ctx context.Context, requestID, email, ticker string) (*MutationResponse, error) {
	return mutate(ctx, c, "update", MethodUpdateUser, &UpdateUserRequest{
		Email:     email,
		Ticker:    ticker,
		RequestID: requestID,
	})
}

// DeleteUser removes email under requestID.
func (c *Client) DeleteUser(ctx context.Context, requestID, email string) (*MutationResponse, error) {
	return mutate(ctx, c, "delete", MethodDeleteUser, &DeleteUserRequest{
		Email:     email,
		RequestID: requestID,
	})
}

// Register is RegisterUser with a fresh request identity.
func (c *Client) Register(ctx context.Context, email, ticker string) (*MutationResponse, error) {
	return c.RegisterUser(ctx, c.ids.New(), email, ticker)
}

// Update is UpdateUser with a fresh request identity.
func (c *Client) Update(ctx context.Context, email, ticker string) (*MutationResponse, error) {
	return c.UpdateUser(ctx, c.ids.New(), email, ticker)
}

// Delete is DeleteUser with a fresh request identity.
func (c *Client) Delete(ctx context.Context, email string) (*MutationResponse, error) {
	return c.DeleteUser(ctx, c.ids.New(), email)
}

// Login checks whether email is registered.
func (c *Client) Login(ctx context.Context, email string) (*LoginUserResponse, error) {
	return read[LoginUserRequest, LoginUserResponse](ctx, c, "login", MethodLoginUser, &LoginUserRequest{Email: email})
}

// LatestValue returns the latest sample of the ticker email subscribes to.
func (c *Client) LatestValue(ctx context.Context, email string) (*GetLatestValueResponse, error) {
	return read[GetLatestValueRequest, GetLatestValueResponse](ctx, c, "latest", MethodGetLatestValue, &GetLatestValueRequest{Email: email})
}

// AverageValue returns the mean of the count latest samples.
func (c *Client) AverageValue(ctx context.Context, email string, count int32) (*GetAverageValueResponse, error) {
	return read[GetAverageValueRequest, GetAverageValueResponse](ctx, c, "average", MethodGetAverageValue, &GetAverageValueRequest{
		Email: email,
		Count: count,
	})
}
