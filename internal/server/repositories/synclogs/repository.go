package synclogs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository is the sync audit log.
type Repository interface {
	Create(ctx context.Context, rec models.SyncAuditRecord) error
	// LastActivityAt returns the newest record time across both
	// directions; ok is false when the user has no records.
	LastActivityAt(ctx context.Context, userID string) (at time.Time, ok bool, err error)
}
