// Package models holds the domain types shared by the sync engine, its
// repositories and the transports.
package models

import (
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/optional"
	"github.com/dmitrijs2005/notekeeper/internal/server/cursor"
)

// SyncDirection of an audit record.
type SyncDirection string

const (
	DirectionPush SyncDirection = "push"
	DirectionPull SyncDirection = "pull"
)

// SyncAuditRecord is one row of the sync audit log. Counts are nil when
// they were not known.
type SyncAuditRecord struct {
	UserID          string
	Direction       SyncDirection
	Succeeded       bool
	ErrorMessage    *string
	NotesCount      *int
	FoldersCount    *int
	WorkspacesCount *int
	CreatedAt       time.Time
}

// DeletionMode selects how a push removes server-side entities.
// It is either DeltaDeletion or FullReplace.
type DeletionMode interface {
	isDeletionMode()
}

// DeltaDeletion deletes exactly the listed client ids of each type.
type DeltaDeletion struct {
	NoteIDs      []string
	FolderIDs    []string
	WorkspaceIDs []string
}

// FullReplace deletes, per type, every entity not named in the push.
type FullReplace struct{}

func (DeltaDeletion) isDeletionMode() {}
func (FullReplace) isDeletionMode()   {}

// PushPayload is a validated push request.
//
// A nil or empty Workspaces list means the default workspace is synthesized.
// A nil Deletion is treated as FullReplace.
type PushPayload struct {
	Notes      []Note
	Folders    []Folder
	Workspaces []Workspace
	Deletion   DeletionMode
}

// PullRequest describes one page request. An absent Limit means the
// configured default. Cursor nil means first page. Since is epoch
// milliseconds; zero or negative disables tombstones.
type PullRequest struct {
	Limit  optional.Value[int]
	Cursor *cursor.Cursor
	Since  int64
}

// PullResult is one page of pull output. Folders, Workspaces and Deleted
// are only populated on the first page.
type PullResult struct {
	Notes      []Note
	Folders    []Folder
	Workspaces []Workspace
	NextCursor *cursor.Cursor
	Deleted    DeletedIDs
}

// NotesPage is a seek-paginated slice of notes. Next is set when more
// notes follow.
type NotesPage struct {
	Notes []Note
	Next  *cursor.Cursor
}
