package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"golang.org/x/sync/errgroup"
)

// effectiveWorkspaces returns ws, or the synthesized default workspace
// when ws is empty.
func effectiveWorkspaces(ws []models.Workspace) []models.Workspace {
	if len(ws) > 0 {
		return ws
	}
	return []models.Workspace{{
		ClientID:  models.DefaultWorkspaceClientID,
		Name:      models.DefaultWorkspaceName,
		IsDefault: true,
	}}
}

// upsertWorkspaces writes all workspaces concurrently; there are few.
func (s *SyncService) upsertWorkspaces(ctx context.Context, tx dbx.DBTX, userID string, ws []models.Workspace) error {
	repo := s.repomanager.Workspaces(tx)

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range ws {
		g.Go(func() error {
			if _, err := repo.Upsert(gctx, userID, w); err != nil {
				return fmt.Errorf("upsert workspace %q: %w", w.ClientID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *SyncService) upsertFolders(ctx context.Context, tx dbx.DBTX, userID string, folders []models.Folder) error {
	repo := s.repomanager.Folders(tx)
	return inBatches(ctx, folders, s.batchSize, func(ctx context.Context, f models.Folder) error {
		if err := repo.Upsert(ctx, userID, f); err != nil {
			return fmt.Errorf("upsert folder %q: %w", f.ClientID, err)
		}
		return nil
	})
}

func (s *SyncService) upsertNotes(ctx context.Context, tx dbx.DBTX, userID string, notes []models.Note) error {
	repo := s.repomanager.Notes(tx)
	return inBatches(ctx, notes, s.batchSize, func(ctx context.Context, n models.Note) error {
		if err := repo.Upsert(ctx, userID, n); err != nil {
			return fmt.Errorf("upsert note %q: %w", n.ClientID, err)
		}
		return nil
	})
}

// inBatches runs fn over items in consecutive batches of size. Batches run
// one after another; items inside a batch run concurrently. The first
// error stops further batches.
func inBatches[T any](ctx context.Context, items []T, size int, fn func(context.Context, T) error) error {
	if size < 1 {
		size = 1
	}
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))

		g, gctx := errgroup.WithContext(ctx)
		for _, item := range items[start:end] {
			g.Go(func() error { return fn(gctx, item) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

func clientIDs[T any](items []T, id func(T) string) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, id(it))
	}
	return ids
}
