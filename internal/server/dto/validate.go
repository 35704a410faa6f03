package dto

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/optional"
)

const (
	MaxIDLength          = 128
	MaxContentLength     = 2_000_000
	MaxDisplayNameLength = 512
	MaxNameLength        = 256
	MaxColorLength       = 32
	MaxIconLength        = 8
	MaxShareCodeLength   = 32

	MaxNotes      = 10_000
	MaxFolders    = 2_000
	MaxWorkspaces = 200

	MinEpochMillis int64 = 0
	MaxEpochMillis int64 = 8_640_000_000_000_000
)

// violations collects validation failures; each one wraps ErrValidation.
type violations []error

func (v *violations) add(field, format string, args ...any) {
	*v = append(*v, fmt.Errorf("%w: %s %s", common.ErrValidation, field, fmt.Sprintf(format, args...)))
}

func (v *violations) required(field, s string) {
	if s == "" {
		v.add(field, "is required")
	}
}

func (v *violations) maxLen(field, s string, limit int) {
	if n := utf8.RuneCountInString(s); n > limit {
		v.add(field, "exceeds %d characters", limit)
	}
}

func (v *violations) optMaxLen(field string, o optional.Value[string], limit int) {
	if s, ok := o.Get(); ok {
		v.maxLen(field, s, limit)
	}
}

func (v *violations) epoch(field string, o optional.Value[int64], mandatory bool) {
	ms, ok := o.Get()
	if !ok {
		if mandatory {
			v.add(field, "is required")
		}
		return
	}
	if ms < MinEpochMillis || ms > MaxEpochMillis {
		v.add(field, "must be epoch milliseconds in [%d, %d]", MinEpochMillis, MaxEpochMillis)
	}
}

func (v *violations) idList(field string, o optional.Value[[]string], limit int) {
	ids, ok := o.Get()
	if !ok {
		return
	}
	if len(ids) > limit {
		v.add(field, "exceeds %d items", limit)
		return
	}
	for i, id := range ids {
		v.maxLen(fmt.Sprintf("%s[%d]", field, i), id, MaxIDLength)
	}
}

func (v violations) err() error {
	return errors.Join(v...)
}

// Validate checks p against the wire limits. The returned error matches
// common.ErrValidation and lists every violation found.
func (p PushRequest) Validate() error {
	var v violations

	switch {
	case p.Notes == nil:
		v.add("notes", "is required")
	case len(p.Notes) > MaxNotes:
		v.add("notes", "exceeds %d items", MaxNotes)
	}
	switch {
	case p.Folders == nil:
		v.add("folders", "is required")
	case len(p.Folders) > MaxFolders:
		v.add("folders", "exceeds %d items", MaxFolders)
	}
	if len(p.Workspaces) > MaxWorkspaces {
		v.add("workspaces", "exceeds %d items", MaxWorkspaces)
	}
	if len(v) > 0 {
		return v.err()
	}

	for i, n := range p.Notes {
		f := func(name string) string { return fmt.Sprintf("notes[%d].%s", i, name) }
		v.required(f("id"), n.ID)
		v.maxLen(f("id"), n.ID, MaxIDLength)
		v.maxLen(f("content"), n.Content, MaxContentLength)
		v.epoch(f("lastModified"), n.LastModified, true)
		v.epoch(f("createdAt"), n.CreatedAt, true)
		v.epoch(f("deletedAt"), n.DeletedAt, false)
		v.optMaxLen(f("displayName"), n.DisplayName, MaxDisplayNameLength)
		v.optMaxLen(f("folderId"), n.FolderID, MaxIDLength)
		v.required(f("workspaceId"), n.WorkspaceID)
		v.maxLen(f("workspaceId"), n.WorkspaceID, MaxIDLength)
		v.optMaxLen(f("color"), n.Color, MaxColorLength)
		v.optMaxLen(f("shareCode"), n.ShareCode, MaxShareCodeLength)
	}

	for i, fo := range p.Folders {
		f := func(name string) string { return fmt.Sprintf("folders[%d].%s", i, name) }
		v.required(f("id"), fo.ID)
		v.maxLen(f("id"), fo.ID, MaxIDLength)
		v.maxLen(f("name"), fo.Name, MaxNameLength)
		v.optMaxLen(f("parentId"), fo.ParentID, MaxIDLength)
		v.epoch(f("createdAt"), fo.CreatedAt, true)
		v.optMaxLen(f("displayName"), fo.DisplayName, MaxDisplayNameLength)
		v.required(f("workspaceId"), fo.WorkspaceID)
		v.maxLen(f("workspaceId"), fo.WorkspaceID, MaxIDLength)
		v.optMaxLen(f("color"), fo.Color, MaxColorLength)
	}

	for i, w := range p.Workspaces {
		f := func(name string) string { return fmt.Sprintf("workspaces[%d].%s", i, name) }
		v.required(f("id"), w.ID)
		v.maxLen(f("id"), w.ID, MaxIDLength)
		v.maxLen(f("name"), w.Name, MaxNameLength)
		v.optMaxLen(f("color"), w.Color, MaxColorLength)
		v.optMaxLen(f("icon"), w.Icon, MaxIconLength)
	}

	v.idList("deletedNoteIds", p.DeletedNoteIDs, MaxNotes)
	v.idList("deletedFolderIds", p.DeletedFolderIDs, MaxFolders)
	v.idList("deletedWorkspaceIds", p.DeletedWorkspaceIDs, MaxWorkspaces)

	return v.err()
}
