package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func metadataValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// requestLogInterceptor assigns a request id and logs every call.
func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := metadataValue(ctx, strings.ToLower(common.RequestIDHeaderName))
	if id == "" {
		id = uuid.NewString()
	}
	ctx = logging.ContextWithRequestID(ctx, id)

	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

// accessTokenInterceptor guards every SyncService method: the access_token
// metadata must carry a valid JWT, and with the pro gate enabled the token
// must grant sync.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") {
		return handler(ctx, req)
	}

	accessToken := metadataValue(ctx, common.AccessTokenHeaderName)
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	if err := auth.RequireSync(ctx, s.requirePro); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return handler(ctx, req)
}
