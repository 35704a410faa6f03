package folders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert writes the folder. An absent optional column keeps its stored value.
func (r *PostgresRepository) Upsert(ctx context.Context, userID string, f models.Folder) error {
	query :=
		`INSERT INTO folders (id, user_id, client_id, name, created_at, workspace_id, display_name, parent_id, color)
		 VALUES ($1, $2, $3, $4, $5, $6, $8::text, $10::text, $12::text)
		 ON CONFLICT (user_id, client_id) DO UPDATE SET
		   name = EXCLUDED.name,
		   created_at = EXCLUDED.created_at,
		   workspace_id = EXCLUDED.workspace_id,
		   display_name = CASE WHEN $7::boolean THEN EXCLUDED.display_name ELSE folders.display_name END,
		   parent_id = CASE WHEN $9::boolean THEN EXCLUDED.parent_id ELSE folders.parent_id END,
		   color = CASE WHEN $11::boolean THEN EXCLUDED.color ELSE folders.color END`

	_, err := r.db.ExecContext(ctx, query,
		uuid.NewString(), userID, f.ClientID, f.Name, f.CreatedAt.UTC(), f.WorkspaceID,
		f.DisplayName.IsPresent(), dbx.Arg(f.DisplayName),
		f.ParentID.IsPresent(), dbx.Arg(f.ParentID),
		f.Color.IsPresent(), dbx.Arg(f.Color),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	query :=
		`SELECT client_id, name, display_name, parent_id, workspace_id, color, created_at
		 FROM folders
		 WHERE user_id = $1
		 ORDER BY created_at, client_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Folder{}
	for rows.Next() {
		var (
			f                          models.Folder
			displayName, parent, color sql.Null[string]
		)
		if err := rows.Scan(&f.ClientID, &f.Name, &displayName, &parent, &f.WorkspaceID, &color, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		f.DisplayName = dbx.FromNull(displayName)
		f.ParentID = dbx.FromNull(parent)
		f.Color = dbx.FromNull(color)
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error) {
	query :=
		`SELECT client_id FROM folders
		 WHERE user_id = $1 AND client_id <> ALL($2::text[])
		 ORDER BY client_id`

	return dbx.QueryStrings(ctx, r.db, query, userID, dbx.KeepList(keep))
}

func (r *PostgresRepository) DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query :=
		`DELETE FROM folders
		 WHERE user_id = $1 AND client_id = ANY($2::text[])`

	return dbx.ExecAffected(ctx, r.db, query, userID, ids)
}
