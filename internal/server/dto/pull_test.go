package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/optional"
	"github.com/dmitrijs2005/notekeeper/internal/server/cursor"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

func TestPullRequest_ToModel(t *testing.T) {
	got, err := PullRequest{Limit: optional.Some(5), Since: 42}.ToModel()
	require.NoError(t, err)
	assert.Nil(t, got.Cursor)
	assert.Equal(t, optional.Some(5), got.Limit)
	assert.Equal(t, int64(42), got.Since)

	token := cursor.Encode(cursor.Cursor{LastModified: 7, ClientID: "n7"})
	got, err = PullRequest{Cursor: token}.ToModel()
	require.NoError(t, err)
	require.NotNil(t, got.Cursor)
	assert.Equal(t, cursor.Cursor{LastModified: 7, ClientID: "n7"}, *got.Cursor)

	_, err = PullRequest{Cursor: "%%%"}.ToModel()
	require.ErrorIs(t, err, common.ErrInvalidCursor)
}

func TestNewPullResponse_JSONShape(t *testing.T) {
	at := func(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

	res := models.PullResult{
		Notes: []models.Note{
			{
				ClientID: "n1", Content: "a", LastModified: at(20), CreatedAt: at(10), WorkspaceID: "w1",
				IsBookmarked: optional.Some(false), DeletedAt: optional.Null[time.Time](), Color: optional.Null[string](),
			},
			{
				ClientID: "n2", Content: "b", LastModified: at(30), CreatedAt: at(10), WorkspaceID: "w1",
				FolderID: optional.Some("f1"), DeletedAt: optional.Some(at(40)), ShareCode: optional.Some("abc"),
			},
		},
		Folders: []models.Folder{
			{ClientID: "f1", Name: "F", WorkspaceID: "w1", CreatedAt: at(5), ParentID: optional.Null[string]()},
		},
		Workspaces: []models.Workspace{
			{ClientID: "w1", Name: "W", IsDefault: true, UpdatedAt: at(50), Color: optional.Some(""), Icon: optional.Some("*")},
		},
		NextCursor: &cursor.Cursor{LastModified: 20, ClientID: "n1"},
		Deleted:    models.DeletedIDs{FolderIDs: []string{"f9"}},
	}

	b, err := json.Marshal(NewPullResponse(res))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	assert.Equal(t, cursor.Encode(*res.NextCursor), raw["nextCursor"])
	assert.Equal(t, []any{"f9"}, raw["deletedFolderIds"])
	assert.NotContains(t, raw, "deletedNoteIds")
	assert.NotContains(t, raw, "deletedWorkspaceIds")

	notes := raw["notes"].([]any)
	first := notes[0].(map[string]any)
	assert.Equal(t, false, first["isBookmarked"])
	assert.NotContains(t, first, "deletedAt")
	assert.NotContains(t, first, "color")
	assert.NotContains(t, first, "folderId")
	assert.NotContains(t, first, "shareCode")
	second := notes[1].(map[string]any)
	assert.Equal(t, float64(40), second["deletedAt"])
	assert.Equal(t, "abc", second["shareCode"])
	assert.Equal(t, "f1", second["folderId"])

	folder := raw["folders"].([]any)[0].(map[string]any)
	assert.Contains(t, folder, "parentId")
	assert.Nil(t, folder["parentId"])
	assert.Equal(t, float64(5), folder["createdAt"])

	ws := raw["workspaces"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(50), ws["updatedAt"])
	assert.NotContains(t, ws, "color", "empty colors are omitted")
	assert.Equal(t, "*", ws["icon"])
}

func TestNewPullResponse_EmptyListsAreArrays(t *testing.T) {
	b, err := json.Marshal(NewPullResponse(models.PullResult{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes":[],"folders":[],"workspaces":[]}`, string(b))
}
