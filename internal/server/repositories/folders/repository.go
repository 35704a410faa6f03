package folders

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, userID string, f models.Folder) error
	ListByUser(ctx context.Context, userID string) ([]models.Folder, error)
	FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error)
	DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error)
}
