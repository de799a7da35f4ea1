package server

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rickgao/tickerwatch/internal/metrics"
)

// recoveryInterceptor turns handler panics into Internal errors.
func recoveryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("handler panicked",
					"method", info.FullMethod,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// loggingInterceptor logs and times every call.
func loggingInterceptor(logger *slog.Logger, m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		code := status.Code(err)
		m.ObserveRPC(info.FullMethod, code.String(), duration)

		switch code {
		case codes.OK:
			logger.Debug("rpc completed", "method", info.FullMethod, "duration", duration)
		case codes.Internal:
			logger.Error("rpc failed", "method", info.FullMethod, "code", code.String(), "duration", duration, "error", err)
		default:
			logger.Info("rpc rejected", "method", info.FullMethod, "code", code.String(), "duration", duration, "error", err)
		}
		return resp, err
	}
}
