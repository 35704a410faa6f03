package workspaces

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository persists workspaces keyed by (userID, clientID).
type Repository interface {
	// Upsert creates the workspace or updates it when name, isDefault,
	// color or icon differ. It reports whether a row was written.
	Upsert(ctx context.Context, userID string, w models.Workspace) (bool, error)
	// ListByUser returns the default workspace first, then newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Workspace, error)
	FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error)
	DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error)
}
