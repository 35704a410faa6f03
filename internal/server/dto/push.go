// Package dto holds the wire types of the sync API shared by the HTTP and
// gRPC surfaces, their validation, and their mapping onto models.
//
// Timestamps on the wire are epoch milliseconds.
package dto

import (
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/optional"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type WorkspaceItem struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	IsDefault bool                   `json:"isDefault"`
	Color     optional.Value[string] `json:"color,omitzero"`
	Icon      optional.Value[string] `json:"icon,omitzero"`
}

type FolderItem struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	ParentID    optional.Value[string] `json:"parentId,omitzero"`
	CreatedAt   optional.Value[int64]  `json:"createdAt,omitzero"`
	DisplayName optional.Value[string] `json:"displayName,omitzero"`
	WorkspaceID string                 `json:"workspaceId"`
	Color       optional.Value[string] `json:"color,omitzero"`
}

type NoteItem struct {
	ID           string                 `json:"id"`
	Content      string                 `json:"content"`
	LastModified optional.Value[int64]  `json:"lastModified,omitzero"`
	CreatedAt    optional.Value[int64]  `json:"createdAt,omitzero"`
	DisplayName  optional.Value[string] `json:"displayName,omitzero"`
	FolderID     optional.Value[string] `json:"folderId,omitzero"`
	WorkspaceID  string                 `json:"workspaceId"`
	DeletedAt    optional.Value[int64]  `json:"deletedAt,omitzero"`
	Color        optional.Value[string] `json:"color,omitzero"`
	IsBookmarked optional.Value[bool]   `json:"isBookmarked,omitzero"`
	// ShareCode is assigned by the server; a pushed value is checked for
	// length and then dropped.
	ShareCode optional.Value[string] `json:"shareCode,omitzero"`
}

// PushRequest is the body of POST /sync and of the gRPC Push call.
type PushRequest struct {
	Notes      []NoteItem      `json:"notes"`
	Folders    []FolderItem    `json:"folders"`
	Workspaces []WorkspaceItem `json:"workspaces,omitempty"`

	// The presence of any deleted*Ids key, even with an empty or null
	// value, switches the push to delta deletion.
	DeletedNoteIDs      optional.Value[[]string] `json:"deletedNoteIds,omitzero"`
	DeletedFolderIDs    optional.Value[[]string] `json:"deletedFolderIds,omitzero"`
	DeletedWorkspaceIDs optional.Value[[]string] `json:"deletedWorkspaceIds,omitzero"`
}

// PushResponse is the (empty) gRPC Push reply.
type PushResponse struct{}

// ToModel validates p and converts it into the engine payload.
func (p PushRequest) ToModel() (models.PushPayload, error) {
	if err := p.Validate(); err != nil {
		return models.PushPayload{}, err
	}

	out := models.PushPayload{
		Notes:    make([]models.Note, 0, len(p.Notes)),
		Folders:  make([]models.Folder, 0, len(p.Folders)),
		Deletion: deletionModeFromPayload(p),
	}
	for _, n := range p.Notes {
		out.Notes = append(out.Notes, models.Note{
			ClientID:     n.ID,
			Content:      n.Content,
			LastModified: fromMillis(n.LastModified.OrElse(0)),
			CreatedAt:    fromMillis(n.CreatedAt.OrElse(0)),
			WorkspaceID:  n.WorkspaceID,
			DisplayName:  n.DisplayName,
			FolderID:     n.FolderID,
			Color:        n.Color,
			IsBookmarked: n.IsBookmarked,
			DeletedAt:    millisValue(n.DeletedAt),
		})
	}
	for _, f := range p.Folders {
		out.Folders = append(out.Folders, models.Folder{
			ClientID:    f.ID,
			Name:        f.Name,
			DisplayName: f.DisplayName,
			ParentID:    f.ParentID,
			WorkspaceID: f.WorkspaceID,
			Color:       f.Color,
			CreatedAt:   fromMillis(f.CreatedAt.OrElse(0)),
		})
	}
	for _, w := range p.Workspaces {
		out.Workspaces = append(out.Workspaces, models.Workspace{
			ClientID:  w.ID,
			Name:      w.Name,
			IsDefault: w.IsDefault,
			Color:     w.Color,
			Icon:      w.Icon,
		})
	}
	return out, nil
}

// deletionModeFromPayload picks delta deletion when any deleted*Ids key was
// sent, and full replace otherwise. In delta mode an absent or null list
// deletes nothing of that type.
func deletionModeFromPayload(p PushRequest) models.DeletionMode {
	if !p.DeletedNoteIDs.IsPresent() && !p.DeletedFolderIDs.IsPresent() && !p.DeletedWorkspaceIDs.IsPresent() {
		return models.FullReplace{}
	}
	return models.DeltaDeletion{
		NoteIDs:      p.DeletedNoteIDs.OrElse(nil),
		FolderIDs:    p.DeletedFolderIDs.OrElse(nil),
		WorkspaceIDs: p.DeletedWorkspaceIDs.OrElse(nil),
	}
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func millisValue(v optional.Value[int64]) optional.Value[time.Time] {
	ms, ok := v.Get()
	if !ok {
		if v.IsNull() {
			return optional.Null[time.Time]()
		}
		return optional.Value[time.Time]{}
	}
	return optional.Some(fromMillis(ms))
}
