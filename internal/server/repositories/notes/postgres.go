package notes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/optional"
	"github.com/dmitrijs2005/notekeeper/internal/server/cursor"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert writes the note. share_code is never touched. deleted_at always
// takes the pushed value, so an absent marker undeletes the note.
func (r *PostgresRepository) Upsert(ctx context.Context, userID string, n models.Note) error {
	query :=
		`INSERT INTO notes (id, user_id, client_id, content, last_modified, created_at, workspace_id,
		                    display_name, folder_id, color, is_bookmarked, deleted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $9::text, $11::text, $13::text, COALESCE($15::boolean, FALSE), $16::timestamptz)
		 ON CONFLICT (user_id, client_id) DO UPDATE SET
		   content = EXCLUDED.content,
		   last_modified = EXCLUDED.last_modified,
		   created_at = EXCLUDED.created_at,
		   workspace_id = EXCLUDED.workspace_id,
		   display_name = CASE WHEN $8::boolean THEN EXCLUDED.display_name ELSE notes.display_name END,
		   folder_id = CASE WHEN $10::boolean THEN EXCLUDED.folder_id ELSE notes.folder_id END,
		   color = CASE WHEN $12::boolean THEN EXCLUDED.color ELSE notes.color END,
		   is_bookmarked = CASE WHEN $14::boolean THEN EXCLUDED.is_bookmarked ELSE notes.is_bookmarked END,
		   deleted_at = EXCLUDED.deleted_at`

	var deletedAt any
	if t, ok := n.DeletedAt.Get(); ok {
		deletedAt = t.UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		uuid.NewString(), userID, n.ClientID, n.Content,
		n.LastModified.UTC(), n.CreatedAt.UTC(), n.WorkspaceID,
		n.DisplayName.IsPresent(), dbx.Arg(n.DisplayName),
		n.FolderID.IsPresent(), dbx.Arg(n.FolderID),
		n.Color.IsPresent(), dbx.Arg(n.Color),
		n.IsBookmarked.IsPresent(), dbx.Arg(n.IsBookmarked),
		deletedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const pageColumns = `client_id, content, last_modified, created_at, workspace_id,
		        display_name, folder_id, color, is_bookmarked, deleted_at, share_code`

func (r *PostgresRepository) Page(ctx context.Context, userID string, limit int, after *cursor.Cursor) (models.NotesPage, error) {
	if limit < 1 {
		limit = 1
	}

	var (
		rows *sql.Rows
		err  error
	)

	// one extra row tells whether another page exists
	if after == nil {
		query :=
			`SELECT ` + pageColumns + `
			 FROM notes
			 WHERE user_id = $1
			 ORDER BY last_modified DESC, client_id DESC
			 LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, userID, limit+1)
	} else {
		query :=
			`SELECT ` + pageColumns + `
			 FROM notes
			 WHERE user_id = $1
			   AND (last_modified < $3 OR (last_modified = $3 AND client_id < $4))
			 ORDER BY last_modified DESC, client_id DESC
			 LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, userID, limit+1,
			time.UnixMilli(after.LastModified).UTC(), after.ClientID)
	}
	if err != nil {
		return models.NotesPage{}, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0, limit+1)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return models.NotesPage{}, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return models.NotesPage{}, fmt.Errorf("rows error: %w", err)
	}

	page := models.NotesPage{Notes: notes}
	if len(notes) > limit {
		page.Notes = notes[:limit]
		last := page.Notes[limit-1]
		page.Next = &cursor.Cursor{LastModified: last.LastModified.UnixMilli(), ClientID: last.ClientID}
	}

	return page, nil
}

func scanNote(rows *sql.Rows) (models.Note, error) {
	var (
		n                                  models.Note
		displayName, folder, color, shareC sql.Null[string]
		deletedAt                          sql.Null[time.Time]
		bookmarked                         bool
	)
	err := rows.Scan(&n.ClientID, &n.Content, &n.LastModified, &n.CreatedAt, &n.WorkspaceID,
		&displayName, &folder, &color, &bookmarked, &deletedAt, &shareC)
	if err != nil {
		return models.Note{}, fmt.Errorf("scan error: %w", err)
	}

	n.DisplayName = dbx.FromNull(displayName)
	n.FolderID = dbx.FromNull(folder)
	n.Color = dbx.FromNull(color)
	n.IsBookmarked = optional.Some(bookmarked)
	n.DeletedAt = dbx.FromNull(deletedAt)
	n.ShareCode = dbx.FromNull(shareC)

	return n, nil
}

func (r *PostgresRepository) FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error) {
	query :=
		`SELECT client_id FROM notes
		 WHERE user_id = $1 AND client_id <> ALL($2::text[])
		 ORDER BY client_id`

	return dbx.QueryStrings(ctx, r.db, query, userID, dbx.KeepList(keep))
}

func (r *PostgresRepository) DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query :=
		`DELETE FROM notes
		 WHERE user_id = $1 AND client_id = ANY($2::text[])`

	return dbx.ExecAffected(ctx, r.db, query, userID, ids)
}
