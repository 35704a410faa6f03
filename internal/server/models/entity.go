package models

import (
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/optional"
)

// EntityType names the three synchronized entity kinds.
type EntityType string

const (
	EntityWorkspace EntityType = "workspace"
	EntityFolder    EntityType = "folder"
	EntityNote      EntityType = "note"
)

// Default workspace synthesized when a push carries none.
const (
	DefaultWorkspaceClientID = "workspace_1"
	DefaultWorkspaceName     = "Workspace 1"
)

// Workspace is a top-level container of folders and notes.
type Workspace struct {
	ClientID  string
	Name      string
	IsDefault bool
	Color     optional.Value[string]
	Icon      optional.Value[string]
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Folder groups notes inside a workspace. ParentID and WorkspaceID are
// client ids of other entities of the same user; they are not enforced.
type Folder struct {
	ClientID    string
	Name        string
	DisplayName optional.Value[string]
	ParentID    optional.Value[string]
	WorkspaceID string
	Color       optional.Value[string]
	CreatedAt   time.Time
}

// Note is a single text document.
//
// DeletedAt is a soft-delete marker that still travels with the note.
// ShareCode is assigned by the server outside the sync flow and is never
// written by an upsert.
type Note struct {
	ClientID     string
	Content      string
	LastModified time.Time
	CreatedAt    time.Time
	WorkspaceID  string
	DisplayName  optional.Value[string]
	FolderID     optional.Value[string]
	Color        optional.Value[string]
	IsBookmarked optional.Value[bool]
	DeletedAt    optional.Value[time.Time]
	ShareCode    optional.Value[string]
}

// Tombstone records the hard deletion of one entity.
type Tombstone struct {
	UserID     string
	EntityType EntityType
	ClientID   string
	DeletedAt  time.Time
}

// DeletedIDs groups tombstoned client ids by entity type.
type DeletedIDs struct {
	NoteIDs      []string
	FolderIDs    []string
	WorkspaceIDs []string
}

// Empty reports whether no ids are held.
func (d DeletedIDs) Empty() bool {
	return len(d.NoteIDs) == 0 && len(d.FolderIDs) == 0 && len(d.WorkspaceIDs) == 0
}
