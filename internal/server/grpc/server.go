package grpc

import (
	"context"
	"math"
	"net"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SyncService is the engine surface used by the handlers.
type SyncService interface {
	Push(ctx context.Context, userID string, p models.PushPayload) error
	Pull(ctx context.Context, userID string, req models.PullRequest) (models.PullResult, error)
	Status(ctx context.Context, userID string) (int64, error)
}

// DefaultMaxMessageSize bounds an inbound request when NewGRPCServer is
// given no limit. It matches the default HTTP body limit.
const DefaultMaxMessageSize = 64 << 20

type GRPCServer struct {
	address    string
	sync       SyncService
	logger     logging.Logger
	jwtSecret  []byte
	requirePro bool
	maxMsgSize int
}

// NewGRPCServer builds a server for address a. maxMsgSize caps inbound
// messages; zero or less selects DefaultMaxMessageSize.
func NewGRPCServer(a string, l logging.Logger, svc SyncService, secretKey string, requirePro bool, maxMsgSize int) *GRPCServer {
	if maxMsgSize <= 0 {
		maxMsgSize = DefaultMaxMessageSize
	}
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		sync:       svc,
		jwtSecret:  []byte(secretKey),
		requirePro: requirePro,
		maxMsgSize: maxMsgSize,
	}
}

// newServer builds the grpc.Server with the sync and health services.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(s.maxMsgSize),
		grpc.MaxSendMsgSize(math.MaxInt32),
	)
	srv.RegisterService(&SyncServiceDesc, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
