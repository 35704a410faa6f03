package dto

import (
	"github.com/dmitrijs2005/notekeeper/internal/optional"
	"github.com/dmitrijs2005/notekeeper/internal/server/cursor"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// PullRequest carries the pull parameters. HTTP fills it from the query
// string; gRPC receives it as the message body.
type PullRequest struct {
	Limit  optional.Value[int] `json:"limit,omitzero"`
	Cursor string              `json:"cursor,omitempty"`
	Since  int64               `json:"since,omitempty"`
}

// ToModel decodes the cursor. An empty cursor selects the first page; a
// malformed one fails with common.ErrInvalidCursor.
func (r PullRequest) ToModel() (models.PullRequest, error) {
	out := models.PullRequest{Limit: r.Limit, Since: r.Since}
	if r.Cursor == "" {
		return out, nil
	}
	c, err := cursor.Decode(r.Cursor)
	if err != nil {
		return models.PullRequest{}, err
	}
	out.Cursor = &c
	return out, nil
}

type NoteOut struct {
	ID           string  `json:"id"`
	Content      string  `json:"content"`
	LastModified int64   `json:"lastModified"`
	CreatedAt    int64   `json:"createdAt"`
	DisplayName  *string `json:"displayName,omitempty"`
	FolderID     *string `json:"folderId,omitempty"`
	WorkspaceID  string  `json:"workspaceId"`
	DeletedAt    *int64  `json:"deletedAt,omitempty"`
	Color        *string `json:"color,omitempty"`
	IsBookmarked *bool   `json:"isBookmarked,omitempty"`
	ShareCode    *string `json:"shareCode,omitempty"`
}

type FolderOut struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ParentID    *string `json:"parentId"`
	CreatedAt   int64   `json:"createdAt"`
	DisplayName *string `json:"displayName,omitempty"`
	WorkspaceID string  `json:"workspaceId"`
	Color       *string `json:"color,omitempty"`
}

type WorkspaceOut struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	IsDefault bool    `json:"isDefault"`
	UpdatedAt int64   `json:"updatedAt"`
	Color     *string `json:"color,omitempty"`
	Icon      *string `json:"icon,omitempty"`
}

// PullResponse has the same shape for every page.
type PullResponse struct {
	Notes               []NoteOut      `json:"notes"`
	Folders             []FolderOut    `json:"folders"`
	Workspaces          []WorkspaceOut `json:"workspaces"`
	NextCursor          string         `json:"nextCursor,omitempty"`
	DeletedNoteIDs      []string       `json:"deletedNoteIds,omitempty"`
	DeletedFolderIDs    []string       `json:"deletedFolderIds,omitempty"`
	DeletedWorkspaceIDs []string       `json:"deletedWorkspaceIds,omitempty"`
}

type StatusRequest struct{}

type StatusResponse struct {
	LastUpdatedAt int64 `json:"lastUpdatedAt"`
}

// NewPullResponse maps an engine result onto the wire.
func NewPullResponse(res models.PullResult) PullResponse {
	out := PullResponse{
		Notes:               make([]NoteOut, 0, len(res.Notes)),
		Folders:             make([]FolderOut, 0, len(res.Folders)),
		Workspaces:          make([]WorkspaceOut, 0, len(res.Workspaces)),
		DeletedNoteIDs:      res.Deleted.NoteIDs,
		DeletedFolderIDs:    res.Deleted.FolderIDs,
		DeletedWorkspaceIDs: res.Deleted.WorkspaceIDs,
	}
	if res.NextCursor != nil {
		out.NextCursor = cursor.Encode(*res.NextCursor)
	}

	for _, n := range res.Notes {
		no := NoteOut{
			ID:           n.ClientID,
			Content:      n.Content,
			LastModified: toMillis(n.LastModified),
			CreatedAt:    toMillis(n.CreatedAt),
			DisplayName:  n.DisplayName.Ptr(),
			FolderID:     n.FolderID.Ptr(),
			WorkspaceID:  n.WorkspaceID,
			Color:        n.Color.Ptr(),
			IsBookmarked: n.IsBookmarked.Ptr(),
			ShareCode:    n.ShareCode.Ptr(),
		}
		if d, ok := n.DeletedAt.Get(); ok {
			ms := toMillis(d)
			no.DeletedAt = &ms
		}
		out.Notes = append(out.Notes, no)
	}

	for _, f := range res.Folders {
		out.Folders = append(out.Folders, FolderOut{
			ID:          f.ClientID,
			Name:        f.Name,
			ParentID:    f.ParentID.Ptr(),
			CreatedAt:   toMillis(f.CreatedAt),
			DisplayName: f.DisplayName.Ptr(),
			WorkspaceID: f.WorkspaceID,
			Color:       f.Color.Ptr(),
		})
	}

	for _, w := range res.Workspaces {
		out.Workspaces = append(out.Workspaces, WorkspaceOut{
			ID:        w.ClientID,
			Name:      w.Name,
			IsDefault: w.IsDefault,
			UpdatedAt: toMillis(w.UpdatedAt),
			Color:     nonEmpty(w.Color),
			Icon:      nonEmpty(w.Icon),
		})
	}

	return out
}

// nonEmpty drops empty strings as well as missing values.
func nonEmpty(v optional.Value[string]) *string {
	if s, ok := v.Get(); ok && s != "" {
		return &s
	}
	return nil
}
