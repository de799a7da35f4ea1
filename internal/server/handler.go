package server

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rickgao/tickerwatch/internal/api"
	"github.com/rickgao/tickerwatch/internal/service"
)

// Handler adapts service.Service to api.SubscriptionServiceServer.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

var _ api.SubscriptionServiceServer = (*Handler)(nil)

// RegisterUser implements api.SubscriptionServiceServer.
func (h *Handler) RegisterUser(ctx context.Context, req *api.RegisterUserRequest) (*api.MutationResponse, error) {
	res, err := h.svc.Register(ctx, req.RequestID, req.Email, req.Ticker)
	return mutationResponse(res, err)
}

// UpdateUser implements api.SubscriptionServiceServer.
func (h *Handler) UpdateUser(ctx context.Context, req *api.UpdateUserRequest) (*api.MutationResponse, error) {
	res, err := h.svc.Update(ctx, req.RequestID, req.Email, req.Ticker)
	return mutationResponse(res, err)
}

// DeleteUser implements api.SubscriptionServiceServer.
func (h *Handler) DeleteUser(ctx context.Context, req *api.DeleteUserRequest) (*api.MutationResponse, error) {
	res, err := h.svc.Delete(ctx, req.RequestID, req.Email)
	return mutationResponse(res, err)
}

// LoginUser implements api.SubscriptionServiceServer.
func (h *Handler) LoginUser(ctx context.Context, req *api.LoginUserRequest) (*api.LoginUserResponse, error) {
	res, err := h.svc.Login(ctx, req.Email)
	if err != nil {
		return nil, statusError(err)
	}
	return &api.LoginUserResponse{Message: res.Message, Success: res.Success}, nil
}

// GetLatestValue implements api.SubscriptionServiceServer.
func (h *Handler) GetLatestValue(ctx context.Context, req *api.GetLatestValueRequest) (*api.GetLatestValueResponse, error) {
	sample, err := h.svc.LatestValue(ctx, req.Email)
	if err != nil {
		return nil, statusError(err)
	}
	return &api.GetLatestValueResponse{
		Ticker:    sample.Ticker,
		Value:     sample.Value,
		Timestamp: sample.FormatTimestamp(),
	}, nil
}

// GetAverageValue implements api.SubscriptionServiceServer.
func (h *Handler) GetAverageValue(ctx context.Context, req *api.GetAverageValueRequest) (*api.GetAverageValueResponse, error) {
	avg, err := h.svc.AverageValue(ctx, req.Email, int(req.Count))
	if err != nil {
		return nil, statusError(err)
	}
	return &api.GetAverageValueResponse{
		Ticker:       avg.Ticker,
		AverageValue: avg.Value,
	}, nil
}

func mutationResponse(res service.MutationResult, err error) (*api.MutationResponse, error) {
	if err != nil {
		return nil, statusError(err)
	}
	return &api.MutationResponse{
		Outcome: string(res.Outcome),
		Message: res.Message,
	}, nil
}

// statusError maps service errors to gRPC status errors.
func statusError(err error) error {
	switch {
	case errors.Is(err, service.ErrMissingRequestID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		// Store details stay in the server log.
		return status.Error(codes.Internal, "internal error")
	}
}
