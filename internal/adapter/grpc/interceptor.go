package grpc

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/wealthflow-risk/internal/logging"
	"github.com/simaogato/wealthflow-risk/internal/observability"
)

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// The token may be sent bare or with a "Bearer " prefix.
// If the token is missing or invalid, it returns status.Unauthenticated.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		token := strings.TrimPrefix(authHeaders[0], "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(validToken)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor logs every unary call with its method, status code and duration
func LoggingInterceptor(logger *logrus.Logger) grpc.UnaryServerInterceptor {
	logger = logging.OrDiscard(logger)
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		entry := logger.WithFields(logrus.Fields{
			"method":      info.FullMethod,
			"code":        code.String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		switch code {
		case codes.OK:
			entry.Info("rpc completed")
		case codes.Internal, codes.Unknown:
			entry.WithError(err).Error("rpc failed")
		default:
			entry.WithError(err).Warn("rpc rejected")
		}
		return resp, err
	}
}

// MetricsInterceptor counts unary calls by method and status code and records their duration
func MetricsInterceptor(metrics *observability.Metrics) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if metrics != nil {
			metrics.RPCRequests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
			metrics.RPCDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		}
		return resp, err
	}
}
