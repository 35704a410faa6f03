package tombstones

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository is the append-only deletion log.
type Repository interface {
	// Insert records one tombstone per id, all sharing one deletion time.
	// An empty list writes nothing.
	Insert(ctx context.Context, userID string, entityType models.EntityType, clientIDs []string) error
	// FindSince returns the ids tombstoned strictly after since.
	FindSince(ctx context.Context, userID string, since time.Time) (models.DeletedIDs, error)
	// ListSince returns the raw tombstones strictly after since, oldest first.
	ListSince(ctx context.Context, userID string, since time.Time) ([]models.Tombstone, error)
}
