package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/folders"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/synclogs"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/tombstones"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/workspaces"
)

// RepositoryManager binds repositories to a store handle, either the pool
// or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Workspaces(db dbx.DBTX) workspaces.Repository
	Folders(db dbx.DBTX) folders.Repository
	Notes(db dbx.DBTX) notes.Repository
	Tombstones(db dbx.DBTX) tombstones.Repository
	SyncLogs(db dbx.DBTX) synclogs.Repository
}
