package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/optional"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

func decodePush(t *testing.T, body string) PushRequest {
	t.Helper()
	var p PushRequest
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestDeletionModeFromPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want models.DeletionMode
	}{
		{
			name: "no deleted keys is full replace",
			body: `{"notes":[],"folders":[]}`,
			want: models.FullReplace{},
		},
		{
			name: "one list present selects delta for all types",
			body: `{"notes":[],"folders":[],"deletedNoteIds":["n1","n2"]}`,
			want: models.DeltaDeletion{NoteIDs: []string{"n1", "n2"}},
		},
		{
			name: "empty list still selects delta",
			body: `{"notes":[],"folders":[],"deletedFolderIds":[]}`,
			want: models.DeltaDeletion{FolderIDs: []string{}},
		},
		{
			name: "null list still selects delta",
			body: `{"notes":[],"folders":[],"deletedWorkspaceIds":null}`,
			want: models.DeltaDeletion{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, deletionModeFromPayload(decodePush(t, tc.body)))
		})
	}
}

func TestPushRequest_ToModel(t *testing.T) {
	p := decodePush(t, `{
		"notes": [{
			"id": "n1", "content": "hello", "lastModified": 2000, "createdAt": 1000,
			"workspaceId": "w1", "folderId": "f1", "color": null,
			"isBookmarked": true, "deletedAt": 3000, "shareCode": "ignored"
		}],
		"folders": [{"id": "f1", "name": "F", "parentId": null, "createdAt": 500, "workspaceId": "w1"}],
		"workspaces": [{"id": "w1", "name": "W", "isDefault": true, "icon": "*"}]
	}`)

	got, err := p.ToModel()
	require.NoError(t, err)

	require.Len(t, got.Notes, 1)
	n := got.Notes[0]
	assert.Equal(t, "n1", n.ClientID)
	assert.Equal(t, time.UnixMilli(2000).UTC(), n.LastModified)
	assert.Equal(t, time.UnixMilli(1000).UTC(), n.CreatedAt)
	assert.Equal(t, optional.Some("f1"), n.FolderID)
	assert.True(t, n.Color.IsNull())
	assert.False(t, n.DisplayName.IsPresent())
	assert.Equal(t, optional.Some(true), n.IsBookmarked)
	assert.Equal(t, optional.Some(time.UnixMilli(3000).UTC()), n.DeletedAt)
	assert.False(t, n.ShareCode.IsPresent(), "share codes are never taken from a push")

	require.Len(t, got.Folders, 1)
	assert.True(t, got.Folders[0].ParentID.IsNull())
	assert.Equal(t, time.UnixMilli(500).UTC(), got.Folders[0].CreatedAt)

	require.Len(t, got.Workspaces, 1)
	assert.True(t, got.Workspaces[0].IsDefault)
	assert.Equal(t, optional.Some("*"), got.Workspaces[0].Icon)
	assert.False(t, got.Workspaces[0].Color.IsPresent())

	assert.Equal(t, models.FullReplace{}, got.Deletion)
}

func TestPushRequest_WorkspacesOmitted(t *testing.T) {
	got, err := decodePush(t, `{"notes":[],"folders":[]}`).ToModel()
	require.NoError(t, err)
	assert.Empty(t, got.Workspaces)
}

func validNote() NoteItem {
	return NoteItem{
		ID:           "n1",
		Content:      "c",
		LastModified: optional.Some[int64](1),
		CreatedAt:    optional.Some[int64](1),
		WorkspaceID:  "w1",
	}
}

func TestPushRequest_Validate(t *testing.T) {
	long := func(n int) string { return strings.Repeat("é", n) }

	tests := []struct {
		name    string
		mutate  func(p *PushRequest)
		wantErr string
	}{
		{"valid", func(p *PushRequest) {}, ""},
		{"missing notes", func(p *PushRequest) { p.Notes = nil }, "notes is required"},
		{"missing folders", func(p *PushRequest) { p.Folders = nil }, "folders is required"},
		{"too many notes", func(p *PushRequest) { p.Notes = make([]NoteItem, MaxNotes+1) }, "notes exceeds 10000 items"},
		{"too many workspaces", func(p *PushRequest) { p.Workspaces = make([]WorkspaceItem, MaxWorkspaces+1) }, "workspaces exceeds 200 items"},
		{"empty id", func(p *PushRequest) { p.Notes[0].ID = "" }, "notes[0].id is required"},
		{"id counted in characters", func(p *PushRequest) { p.Notes[0].ID = long(MaxIDLength) }, ""},
		{"id too long", func(p *PushRequest) { p.Notes[0].ID = long(MaxIDLength + 1) }, "notes[0].id exceeds 128 characters"},
		{"missing lastModified", func(p *PushRequest) { p.Notes[0].LastModified = optional.Value[int64]{} }, "notes[0].lastModified is required"},
		{"negative createdAt", func(p *PushRequest) { p.Notes[0].CreatedAt = optional.Some[int64](-1) }, "notes[0].createdAt must be epoch milliseconds"},
		{"deletedAt beyond range", func(p *PushRequest) { p.Notes[0].DeletedAt = optional.Some(MaxEpochMillis + 1) }, "notes[0].deletedAt must be epoch milliseconds"},
		{"deletedAt at upper bound", func(p *PushRequest) { p.Notes[0].DeletedAt = optional.Some(MaxEpochMillis) }, ""},
		{"color too long", func(p *PushRequest) { p.Notes[0].Color = optional.Some(long(33)) }, "notes[0].color exceeds 32 characters"},
		{"share code too long", func(p *PushRequest) { p.Notes[0].ShareCode = optional.Some(long(33)) }, "notes[0].shareCode exceeds 32 characters"},
		{"missing workspaceId", func(p *PushRequest) { p.Notes[0].WorkspaceID = "" }, "notes[0].workspaceId is required"},
		{"folder name too long", func(p *PushRequest) {
			p.Folders = []FolderItem{{ID: "f", Name: long(257), CreatedAt: optional.Some[int64](0), WorkspaceID: "w"}}
		}, "folders[0].name exceeds 256 characters"},
		{"folder missing createdAt", func(p *PushRequest) {
			p.Folders = []FolderItem{{ID: "f", Name: "F", WorkspaceID: "w"}}
		}, "folders[0].createdAt is required"},
		{"workspace icon too long", func(p *PushRequest) {
			p.Workspaces = []WorkspaceItem{{ID: "w", Name: "W", Icon: optional.Some("123456789")}}
		}, "workspaces[0].icon exceeds 8 characters"},
		{"deleted id too long", func(p *PushRequest) {
			p.DeletedNoteIDs = optional.Some([]string{"ok", long(129)})
		}, "deletedNoteIds[1] exceeds 128 characters"},
		{"too many deleted folder ids", func(p *PushRequest) {
			p.DeletedFolderIDs = optional.Some(make([]string, MaxFolders+1))
		}, "deletedFolderIds exceeds 2000 items"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := PushRequest{Notes: []NoteItem{validNote()}, Folders: []FolderItem{}}
			tc.mutate(&p)

			err := p.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrValidation))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestPushRequest_ValidateReportsEveryViolation(t *testing.T) {
	p := PushRequest{
		Notes:   []NoteItem{{ID: "", WorkspaceID: ""}},
		Folders: []FolderItem{},
	}
	err := p.Validate()
	require.Error(t, err)
	for _, s := range []string{"notes[0].id", "notes[0].lastModified", "notes[0].createdAt", "notes[0].workspaceId"} {
		assert.Contains(t, err.Error(), s)
	}
}

func TestPushRequest_ToModelRejectsInvalid(t *testing.T) {
	_, err := PushRequest{}.ToModel()
	require.ErrorIs(t, err, common.ErrValidation)
}
