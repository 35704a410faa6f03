package workspaces

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

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, w models.Workspace) (bool, error) {
	query :=
		`INSERT INTO workspaces (id, user_id, client_id, name, is_default, color, icon)
		 VALUES ($1, $2, $3, $4, $5, $7::text, $9::text)
		 ON CONFLICT (user_id, client_id) DO UPDATE SET
		   name = EXCLUDED.name,
		   is_default = EXCLUDED.is_default,
		   color = CASE WHEN $6::boolean THEN EXCLUDED.color ELSE workspaces.color END,
		   icon = CASE WHEN $8::boolean THEN EXCLUDED.icon ELSE workspaces.icon END,
		   updated_at = now()
		 WHERE (workspaces.name, workspaces.is_default, workspaces.color, workspaces.icon) IS DISTINCT FROM
		   (EXCLUDED.name, EXCLUDED.is_default,
		    CASE WHEN $6::boolean THEN EXCLUDED.color ELSE workspaces.color END,
		    CASE WHEN $8::boolean THEN EXCLUDED.icon ELSE workspaces.icon END)`

	res, err := r.db.ExecContext(ctx, query,
		uuid.NewString(), userID, w.ClientID, w.Name, w.IsDefault,
		w.Color.IsPresent(), dbx.Arg(w.Color),
		w.Icon.IsPresent(), dbx.Arg(w.Icon),
	)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}

	return n > 0, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Workspace, error) {
	query :=
		`SELECT client_id, name, is_default, color, icon, created_at, updated_at
		 FROM workspaces
		 WHERE user_id = $1
		 ORDER BY is_default DESC, created_at DESC, client_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Workspace{}
	for rows.Next() {
		var (
			w           models.Workspace
			color, icon sql.Null[string]
		)
		if err := rows.Scan(&w.ClientID, &w.Name, &w.IsDefault, &color, &icon, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		w.Color = dbx.FromNull(color)
		w.Icon = dbx.FromNull(icon)
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error) {
	query :=
		`SELECT client_id FROM workspaces
		 WHERE user_id = $1 AND client_id <> ALL($2::text[])
		 ORDER BY client_id`

	return dbx.QueryStrings(ctx, r.db, query, userID, dbx.KeepList(keep))
}

func (r *PostgresRepository) DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query :=
		`DELETE FROM workspaces
		 WHERE user_id = $1 AND client_id = ANY($2::text[])`

	return dbx.ExecAffected(ctx, r.db, query, userID, ids)
}
