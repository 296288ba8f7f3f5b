package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	grpcCodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

// Limiter decides whether a client may issue another call.
type Limiter interface {
	Allow(clientID string) bool
}

// InterceptorChain 拦截器链
type InterceptorChain struct {
	log     logger.Logger
	limiter Limiter
}

// NewInterceptorChain 创建拦截器链. limiter may be nil.
func NewInterceptorChain(log logger.Logger, limiter Limiter) *InterceptorChain {
	return &InterceptorChain{
		log:     log,
		limiter: limiter,
	}
}

// UnaryRecoveryInterceptor 恢复拦截器(捕获 panic)
func (ic *InterceptorChain) UnaryRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				ic.log.Error(ctx, "gRPC handler panic recovered", fmt.Errorf("%v", r),
					logger.String("method", info.FullMethod),
				)
				err = status.Error(grpcCodes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}

// UnaryLoggingInterceptor 日志拦截器
func (ic *InterceptorChain) UnaryLoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()

		var userAgent string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if agents := md.Get("user-agent"); len(agents) > 0 {
				userAgent = agents[0]
			}
		}

		resp, err := handler(ctx, req)

		ic.log.Debug(ctx, "gRPC request completed",
			logger.String("method", info.FullMethod),
			logger.String("client_ip", clientAddress(ctx)),
			logger.String("user_agent", userAgent),
			logger.Int("duration_ms", int(time.Since(startTime).Milliseconds())),
			logger.String("status", status.Code(err).String()),
		)
		return resp, err
	}
}

// UnaryRateLimitInterceptor 限流拦截器
func (ic *InterceptorChain) UnaryRateLimitInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if ic.limiter == nil {
			return handler(ctx, req)
		}

		client := clientAddress(ctx)
		if !ic.limiter.Allow(client) {
			ic.log.Warn(ctx, "rate limit exceeded",
				logger.String("client_ip", client),
				logger.String("method", info.FullMethod),
			)
			return nil, status.Errorf(grpcCodes.ResourceExhausted, "rate limit exceeded for %s", client)
		}
		return handler(ctx, req)
	}
}

// UnaryErrorInterceptor 错误转换拦截器(将应用错误转换为 gRPC 状态码)
func (ic *InterceptorChain) UnaryErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		return resp, toGRPCError(err)
	}
}

// toGRPCError maps an AppError onto a gRPC status. Errors that already carry a status pass through.
func toGRPCError(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return status.Error(grpcCodes.Internal, "internal server error")
	}

	msg := errors.ToErrorResponse(appErr).ErrorDescription
	switch appErr.HTTPStatus() {
	case 400:
		return status.Error(grpcCodes.InvalidArgument, msg)
	case 404:
		return status.Error(grpcCodes.NotFound, msg)
	case 429:
		return status.Error(grpcCodes.ResourceExhausted, msg)
	default:
		if appErr.Code() == errors.ErrCodeServiceUnavailable {
			return status.Error(grpcCodes.Unavailable, msg)
		}
		return status.Error(grpcCodes.Internal, msg)
	}
}

func clientAddress(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ips := md.Get("x-forwarded-for"); len(ips) > 0 {
			return ips[0]
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}
	return "unknown"
}

// ChainUnaryInterceptors 链式调用所有拦截器
func (ic *InterceptorChain) ChainUnaryInterceptors() grpc.ServerOption {
	return grpc.ChainUnaryInterceptor(
		ic.UnaryRecoveryInterceptor(),  // 1. 恢复 panic
		ic.UnaryLoggingInterceptor(),   // 2. 日志
		ic.UnaryRateLimitInterceptor(), // 3. 限流
		ic.UnaryErrorInterceptor(),     // 4. 错误转换
	)
}

//Personal.AI order the ending
