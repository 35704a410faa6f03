package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/cursor"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, userID string, n models.Note) error
	// Page returns up to limit notes ordered by (lastModified desc,
	// clientId desc) strictly after the given position. A nil after starts
	// from the newest note.
	Page(ctx context.Context, userID string, limit int, after *cursor.Cursor) (models.NotesPage, error)
	FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error)
	DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error)
}
