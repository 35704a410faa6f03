package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// deletable is the part of an entity repository the reconciler needs.
type deletable interface {
	FindClientIDsExcept(ctx context.Context, userID string, keep []string) ([]string, error)
	DeleteByClientIDs(ctx context.Context, userID string, ids []string) (int64, error)
}

// keepLists are the client ids named by the push, per entity type.
type keepLists struct {
	notes, folders, workspaces []string
}

type reconcileTarget struct {
	entity models.EntityType
	repo   deletable
	keep   []string
	delete []string
}

// reconcile removes entities according to mode, writing tombstones before
// every delete. Types are processed notes, folders, workspaces.
//
// Delta: exactly the listed ids are tombstoned and deleted, whether or not
// a row exists. Full replace: every existing id not named in the push is
// tombstoned and deleted; an empty list for a type removes all of it.
func (s *SyncService) reconcile(ctx context.Context, tx dbx.DBTX, userID string, mode models.DeletionMode, keep keepLists) error {
	tombstones := s.repomanager.Tombstones(tx)

	targets := []reconcileTarget{
		{entity: models.EntityNote, repo: s.repomanager.Notes(tx), keep: keep.notes},
		{entity: models.EntityFolder, repo: s.repomanager.Folders(tx), keep: keep.folders},
		{entity: models.EntityWorkspace, repo: s.repomanager.Workspaces(tx), keep: keep.workspaces},
	}

	switch m := mode.(type) {
	case models.DeltaDeletion:
		targets[0].delete = m.NoteIDs
		targets[1].delete = m.FolderIDs
		targets[2].delete = m.WorkspaceIDs
	case models.FullReplace, nil:
		for i := range targets {
			ids, err := targets[i].repo.FindClientIDsExcept(ctx, userID, targets[i].keep)
			if err != nil {
				return fmt.Errorf("find stale %ss: %w", targets[i].entity, err)
			}
			targets[i].delete = ids
		}
	default:
		return fmt.Errorf("unknown deletion mode %T", mode)
	}

	for _, t := range targets {
		if len(t.delete) == 0 {
			continue
		}
		if err := tombstones.Insert(ctx, userID, t.entity, t.delete); err != nil {
			return fmt.Errorf("tombstone %ss: %w", t.entity, err)
		}
		if _, err := t.repo.DeleteByClientIDs(ctx, userID, t.delete); err != nil {
			return fmt.Errorf("delete %ss: %w", t.entity, err)
		}
	}

	return nil
}
