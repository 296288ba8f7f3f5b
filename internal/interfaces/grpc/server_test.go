package grpc

import (
	"context"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	grpcCodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bell24h/supplierrisk/pkg/constants"
	"github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

type togglePinger struct{ err error }

func (p *togglePinger) Ping(context.Context) error { return p.err }

func dialBufconn(t *testing.T, s *Server) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.ServeListener(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func TestServer_HealthFollowsDependencies(t *testing.T) {
	db := &togglePinger{}
	s := NewServer(0, map[string]Pinger{"database": db}, NewInterceptorChain(logger.NewNoopLogger(), nil), logger.NewNoopLogger())
	client := dialBufconn(t, s)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: constants.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	db.err = stderrors.New("connection refused")
	assert.False(t, s.CheckDependencies(ctx))

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	db.err = nil
	assert.True(t, s.CheckDependencies(ctx))
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func TestInterceptors(t *testing.T) {
	chain := NewInterceptorChain(logger.NewNoopLogger(), denyAll{})
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}
	ctx := context.Background()

	t.Run("recovery", func(t *testing.T) {
		_, err := chain.UnaryRecoveryInterceptor()(ctx, nil, info, func(context.Context, interface{}) (interface{}, error) {
			panic("boom")
		})
		assert.Equal(t, grpcCodes.Internal, status.Code(err))
	})

	t.Run("rate limit", func(t *testing.T) {
		_, err := chain.UnaryRateLimitInterceptor()(ctx, nil, info, func(context.Context, interface{}) (interface{}, error) {
			return "ok", nil
		})
		assert.Equal(t, grpcCodes.ResourceExhausted, status.Code(err))
	})

	t.Run("error mapping", func(t *testing.T) {
		cases := map[error]grpcCodes.Code{
			errors.ErrSupplierNotFound("x"):      grpcCodes.NotFound,
			errors.ErrInvalidRequest("bad"):      grpcCodes.InvalidArgument,
			errors.ErrStoreUnavailable("get"):    grpcCodes.Unavailable,
			errors.ErrInternal("oops"):           grpcCodes.Internal,
			stderrors.New("plain"):               grpcCodes.Internal,
			status.Error(grpcCodes.Aborted, "x"): grpcCodes.Aborted,
		}
		for in, want := range cases {
			_, err := chain.UnaryErrorInterceptor()(ctx, nil, info, func(context.Context, interface{}) (interface{}, error) {
				return nil, in
			})
			assert.Equal(t, want, status.Code(err), in.Error())
		}
	})
}
