package synclogs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec models.SyncAuditRecord) error {
	query :=
		`INSERT INTO sync_logs (user_id, direction, succeeded, error_message, notes_count, folders_count, workspaces_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		rec.UserID, string(rec.Direction), rec.Succeeded,
		nullable(rec.ErrorMessage), nullable(rec.NotesCount), nullable(rec.FoldersCount), nullable(rec.WorkspacesCount),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) LastActivityAt(ctx context.Context, userID string) (time.Time, bool, error) {
	query :=
		`SELECT MAX(created_at) FROM sync_logs
		 WHERE user_id = $1`

	var at sql.Null[time.Time]
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&at); err != nil {
		return time.Time{}, false, fmt.Errorf("db error: %w", err)
	}

	return at.V, at.Valid, nil
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
