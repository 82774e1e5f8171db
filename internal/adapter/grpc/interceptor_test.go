package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/wealthflow-risk/internal/observability"
)

func TestAuthInterceptor(t *testing.T) {
	validToken := "test-token-123"
	interceptor := AuthInterceptor(validToken)

	tests := []struct {
		name           string
		ctx            context.Context
		handlerCalled  bool
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name: "Valid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Bearer Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "Bearer "+validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Token Prefix Only",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", validToken[:4]),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name: "Invalid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "wrong-token"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name:           "Missing Token",
			ctx:            context.Background(),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing metadata",
		},
		{
			name: "Missing Authorization Header",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("other-header", "value"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing authorization header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{
				FullMethod: RunSimulationMethod,
			}

			resp, err := interceptor(tt.ctx, "test-request", info, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	interceptor := LoggingInterceptor(logger)
	info := &grpc.UnaryServerInfo{FullMethod: ListScenariosMethod}

	tests := []struct {
		name          string
		err           error
		expectedLevel logrus.Level
		expectedCode  string
	}{
		{"ok", nil, logrus.InfoLevel, "OK"},
		{"rejected", status.Error(codes.InvalidArgument, "bad"), logrus.WarnLevel, "InvalidArgument"},
		{"failed", errors.New("boom"), logrus.ErrorLevel, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return "resp", tt.err
			}

			resp, err := interceptor(context.Background(), "req", info, handler)

			assert.Equal(t, "resp", resp)
			assert.Equal(t, tt.err, err)
			require.Len(t, hook.Entries, 1)
			entry := hook.LastEntry()
			assert.Equal(t, tt.expectedLevel, entry.Level)
			assert.Equal(t, ListScenariosMethod, entry.Data["method"])
			assert.Equal(t, tt.expectedCode, entry.Data["code"])
		})
	}
}

func TestMetricsInterceptor(t *testing.T) {
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	interceptor := MetricsInterceptor(metrics)
	info := &grpc.UnaryServerInfo{FullMethod: RunSimulationMethod}

	ok := func(ctx context.Context, req interface{}) (interface{}, error) { return nil, nil }
	notFound := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "missing")
	}

	_, _ = interceptor(context.Background(), nil, info, ok)
	_, _ = interceptor(context.Background(), nil, info, ok)
	_, _ = interceptor(context.Background(), nil, info, notFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RPCRequests.WithLabelValues(RunSimulationMethod, "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RPCRequests.WithLabelValues(RunSimulationMethod, "NotFound")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RPCDuration))

	assert.NotPanics(t, func() {
		_, _ = MetricsInterceptor(nil)(context.Background(), nil, info, ok)
	})
}
