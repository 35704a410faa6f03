package services

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/optional"
	"github.com/dmitrijs2005/notekeeper/internal/server/cursor"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/folders"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/synclogs"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/tombstones"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/workspaces"
)

// -------- in-memory store --------

type key struct{ user, id string }

type auditEntry struct {
	rec  models.SyncAuditRecord
	inTx bool
}

type memStore struct {
	mu    sync.Mutex
	clock time.Time

	workspaces map[key]models.Workspace
	folders    map[key]models.Folder
	notes      map[key]models.Note
	tombstones []models.Tombstone
	audits     []auditEntry

	// calls records every write in order, e.g. "upsert:note:n1".
	calls []string

	inFlight, maxInFlight int
	lastPageLimit         int

	noteUpsertErr    error
	noteUpsertBlocks bool
	folderListErr    error
	pageErr          error
	txAuditErr       error
	poolAuditErr     error
}

func newMemStore() *memStore {
	return &memStore{
		clock:      time.UnixMilli(1_700_000_000_000).UTC(),
		workspaces: map[key]models.Workspace{},
		folders:    map[key]models.Folder{},
		notes:      map[key]models.Note{},
	}
}

// tick advances and returns the store clock; callers hold mu.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func merge[T any](old, next optional.Value[T]) optional.Value[T] {
	if next.IsPresent() {
		return next
	}
	return old
}

type memManager struct {
	repomanager.RepositoryManager
	st *memStore
}

func (m *memManager) Workspaces(db dbx.DBTX) workspaces.Repository { return &memWorkspaces{m.st} }
func (m *memManager) Folders(db dbx.DBTX) folders.Repository       { return &memFolders{m.st} }
func (m *memManager) Notes(db dbx.DBTX) notes.Repository           { return &memNotes{m.st} }
func (m *memManager) Tombstones(db dbx.DBTX) tombstones.Repository { return &memTombstones{m.st} }
func (m *memManager) SyncLogs(db dbx.DBTX) synclogs.Repository {
	_, inTx := db.(*sql.Tx)
	return &memLogs{st: m.st, inTx: inTx}
}

// -------- workspaces --------

type memWorkspaces struct{ st *memStore }

func (r *memWorkspaces) Upsert(ctx context.Context, userID string, w models.Workspace) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.calls = append(r.st.calls, "upsert:workspace:"+w.ClientID)

	k := key{userID, w.ClientID}
	old, ok := r.st.workspaces[k]
	if !ok {
		now := r.st.tick()
		w.CreatedAt, w.UpdatedAt = now, now
		r.st.workspaces[k] = w
		return true, nil
	}
	next := old
	next.Name, next.IsDefault = w.Name, w.IsDefault
	next.Color = merge(old.Color, w.Color)
	next.Icon = merge(old.Icon, w.Icon)
	if next.Name == old.Name && next.IsDefault == old.IsDefault &&
		next.Color == old.Color && next.Icon == old.Icon {
		return false, nil
	}
	next.UpdatedAt = r.st.tick()
	r.st.workspaces[k] = next
	return true, nil
}

func (r *memWorkspaces) ListByUser(ctx context.Context, userID string) ([]models.Workspace, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := []models.Workspace{}
	for k, w := range r.st.workspaces {
		if k.user == userID {
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b models.Workspace) int {
		if a.IsDefault != b.IsDefault {
			if a.IsDefault {
				return -1
			}
			return 1
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ClientID, b.ClientID)
	})
	return out, nil
}

func (r *memWorkspaces) FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return idsExcept(r.st.workspaces, userID, keep), nil
}

func (r *memWorkspaces) DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.calls = append(r.st.calls, "delete:workspace")
	return deleteIDs(r.st.workspaces, userID, ids), nil
}

// -------- folders --------

type memFolders struct{ st *memStore }

func (r *memFolders) Upsert(ctx context.Context, userID string, f models.Folder) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.calls = append(r.st.calls, "upsert:folder:"+f.ClientID)

	k := key{userID, f.ClientID}
	if old, ok := r.st.folders[k]; ok {
		f.DisplayName = merge(old.DisplayName, f.DisplayName)
		f.ParentID = merge(old.ParentID, f.ParentID)
		f.Color = merge(old.Color, f.Color)
	}
	r.st.folders[k] = f
	return nil
}

func (r *memFolders) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.folderListErr != nil {
		return nil, r.st.folderListErr
	}
	out := []models.Folder{}
	for k, f := range r.st.folders {
		if k.user == userID {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b models.Folder) int { return cmp.Compare(a.ClientID, b.ClientID) })
	return out, nil
}

func (r *memFolders) FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return idsExcept(r.st.folders, userID, keep), nil
}

func (r *memFolders) DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.calls = append(r.st.calls, "delete:folder")
	return deleteIDs(r.st.folders, userID, ids), nil
}

// -------- notes --------

type memNotes struct{ st *memStore }

func (r *memNotes) Upsert(ctx context.Context, userID string, n models.Note) error {
	r.st.mu.Lock()
	r.st.inFlight++
	r.st.maxInFlight = max(r.st.maxInFlight, r.st.inFlight)
	blocks, failWith := r.st.noteUpsertBlocks, r.st.noteUpsertErr
	r.st.mu.Unlock()

	defer func() {
		r.st.mu.Lock()
		r.st.inFlight--
		r.st.mu.Unlock()
	}()

	// give concurrent upserts in a batch a chance to overlap
	time.Sleep(time.Millisecond)

	if blocks {
		<-ctx.Done()
		return ctx.Err()
	}
	if failWith != nil {
		return failWith
	}

	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.calls = append(r.st.calls, "upsert:note:"+n.ClientID)

	k := key{userID, n.ClientID}
	old, exists := r.st.notes[k]
	if exists {
		n.DisplayName = merge(old.DisplayName, n.DisplayName)
		n.FolderID = merge(old.FolderID, n.FolderID)
		n.Color = merge(old.Color, n.Color)
		n.ShareCode = old.ShareCode
	} else {
		n.ShareCode = optional.Null[string]()
	}
	switch {
	case n.IsBookmarked.IsSet():
	case n.IsBookmarked.IsNull() || !exists:
		n.IsBookmarked = optional.Some(false)
	default:
		n.IsBookmarked = old.IsBookmarked
	}
	if !n.DeletedAt.IsSet() {
		n.DeletedAt = optional.Null[time.Time]()
	}
	r.st.notes[k] = n
	return nil
}

func (r *memNotes) Page(ctx context.Context, userID string, limit int, after *cursor.Cursor) (models.NotesPage, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.lastPageLimit = limit
	if r.st.pageErr != nil {
		return models.NotesPage{}, r.st.pageErr
	}

	all := []models.Note{}
	for k, n := range r.st.notes {
		if k.user != userID {
			continue
		}
		if after != nil {
			lm := n.LastModified.UnixMilli()
			if !(lm < after.LastModified || (lm == after.LastModified && n.ClientID < after.ClientID)) {
				continue
			}
		}
		all = append(all, n)
	}
	slices.SortFunc(all, func(a, b models.Note) int {
		if c := b.LastModified.Compare(a.LastModified); c != 0 {
			return c
		}
		return cmp.Compare(b.ClientID, a.ClientID)
	})

	page := models.NotesPage{Notes: all}
	if len(all) > limit {
		page.Notes = all[:limit]
		last := page.Notes[limit-1]
		page.Next = &cursor.Cursor{LastModified: last.LastModified.UnixMilli(), ClientID: last.ClientID}
	}
	return page, nil
}

func (r *memNotes) FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return idsExcept(r.st.notes, userID, keep), nil
}

func (r *memNotes) DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.calls = append(r.st.calls, "delete:note")
	return deleteIDs(r.st.notes, userID, ids), nil
}

// -------- tombstones --------

type memTombstones struct{ st *memStore }

func (r *memTombstones) Insert(ctx context.Context, userID string, entityType models.EntityType, clientIDs []string) error {
	if len(clientIDs) == 0 {
		return nil
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.calls = append(r.st.calls, "tombstone:"+string(entityType))
	at := r.st.tick()
	for _, id := range clientIDs {
		r.st.tombstones = append(r.st.tombstones, models.Tombstone{UserID: userID, EntityType: entityType, ClientID: id, DeletedAt: at})
	}
	return nil
}

func (r *memTombstones) ListSince(ctx context.Context, userID string, since time.Time) ([]models.Tombstone, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := []models.Tombstone{}
	for _, t := range r.st.tombstones {
		if t.UserID == userID && t.DeletedAt.After(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTombstones) FindSince(ctx context.Context, userID string, since time.Time) (models.DeletedIDs, error) {
	list, _ := r.ListSince(ctx, userID, since)
	var ids models.DeletedIDs
	for _, t := range list {
		switch t.EntityType {
		case models.EntityNote:
			ids.NoteIDs = append(ids.NoteIDs, t.ClientID)
		case models.EntityFolder:
			ids.FolderIDs = append(ids.FolderIDs, t.ClientID)
		default:
			ids.WorkspaceIDs = append(ids.WorkspaceIDs, t.ClientID)
		}
	}
	return ids, nil
}

// -------- audit log --------

type memLogs struct {
	st   *memStore
	inTx bool
}

func (r *memLogs) Create(ctx context.Context, rec models.SyncAuditRecord) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.inTx && r.st.txAuditErr != nil {
		return r.st.txAuditErr
	}
	if !r.inTx && r.st.poolAuditErr != nil {
		return r.st.poolAuditErr
	}
	r.st.calls = append(r.st.calls, "audit")
	rec.CreatedAt = r.st.tick()
	r.st.audits = append(r.st.audits, auditEntry{rec: rec, inTx: r.inTx})
	return nil
}

func (r *memLogs) LastActivityAt(ctx context.Context, userID string) (time.Time, bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var (
		latest time.Time
		found  bool
	)
	for _, a := range r.st.audits {
		if a.rec.UserID == userID && (!found || a.rec.CreatedAt.After(latest)) {
			latest, found = a.rec.CreatedAt, true
		}
	}
	return latest, found, nil
}

// -------- helpers --------

func idsExcept[T any](m map[key]T, userID string, keep []string) []string {
	out := []string{}
	for k := range m {
		if k.user == userID && !slices.Contains(keep, k.id) {
			out = append(out, k.id)
		}
	}
	slices.Sort(out)
	return out
}

func deleteIDs[T any](m map[key]T, userID string, ids []string) int64 {
	var n int64
	for _, id := range ids {
		k := key{userID, id}
		if _, ok := m[k]; ok {
			delete(m, k)
			n++
		}
	}
	return n
}
