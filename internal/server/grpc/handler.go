package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/dto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Push(ctx context.Context, req *dto.PushRequest) (*dto.PushResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	payload, err := req.ToModel()
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if err := s.sync.Push(ctx, userID, payload); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &dto.PushResponse{}, nil
}

func (s *GRPCServer) Pull(ctx context.Context, req *dto.PullRequest) (*dto.PullResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	pr, err := req.ToModel()
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	res, err := s.sync.Pull(ctx, userID, pr)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := dto.NewPullResponse(res)
	return &out, nil
}

func (s *GRPCServer) Status(ctx context.Context, _ *dto.StatusRequest) (*dto.StatusResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	at, err := s.sync.Status(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &dto.StatusResponse{LastUpdatedAt: at}, nil
}

// toStatus converts an engine or auth error into a gRPC status. Internal
// details are logged and not returned.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrInvalidCursor):
		return status.Error(codes.InvalidArgument, common.ErrInvalidCursor.Error())
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrSyncNotAllowed):
		return status.Error(codes.PermissionDenied, common.ErrSyncNotAllowed.Error())
	default:
		s.logger.Error(ctx, "rpc failed", "error", err)
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
