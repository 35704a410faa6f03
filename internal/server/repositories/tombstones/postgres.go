package tombstones

import (
	"context"
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

// Insert records one tombstone per id. All rows of a call share one
// deleted_at read from the database clock, the clock sync_logs uses too.
func (r *PostgresRepository) Insert(ctx context.Context, userID string, entityType models.EntityType, clientIDs []string) error {
	if len(clientIDs) == 0 {
		return nil
	}

	query :=
		`WITH ts AS MATERIALIZED (SELECT clock_timestamp() AS at)
		 INSERT INTO sync_tombstones (user_id, entity_type, client_id, deleted_at)
		 SELECT $1, $2, id, ts.at FROM unnest($3::text[]) AS id, ts`

	_, err := r.db.ExecContext(ctx, query, userID, string(entityType), clientIDs)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindSince(ctx context.Context, userID string, since time.Time) (models.DeletedIDs, error) {
	list, err := r.ListSince(ctx, userID, since)
	if err != nil {
		return models.DeletedIDs{}, err
	}

	var ids models.DeletedIDs
	for _, t := range list {
		switch t.EntityType {
		case models.EntityNote:
			ids.NoteIDs = append(ids.NoteIDs, t.ClientID)
		case models.EntityFolder:
			ids.FolderIDs = append(ids.FolderIDs, t.ClientID)
		case models.EntityWorkspace:
			ids.WorkspaceIDs = append(ids.WorkspaceIDs, t.ClientID)
		}
	}

	return ids, nil
}

func (r *PostgresRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]models.Tombstone, error) {
	query :=
		`SELECT entity_type, client_id, deleted_at
		 FROM sync_tombstones
		 WHERE user_id = $1 AND deleted_at > $2
		 ORDER BY deleted_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Tombstone{}
	for rows.Next() {
		t := models.Tombstone{UserID: userID}
		var entityType string
		if err := rows.Scan(&entityType, &t.ClientID, &t.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		t.EntityType = models.EntityType(entityType)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
