// Package services contains the server-side sync engine. SyncService applies
// pushes atomically, serves paginated pulls and reports sync status; every
// push and every first-page pull leaves one audit record.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

type SyncService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger

	batchSize    int
	txTimeout    time.Duration
	defaultLimit int
	maxLimit     int
}

func NewSyncService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *SyncService {
	return &SyncService{
		db:           db,
		repomanager:  m,
		logger:       l.With("module", "sync_service"),
		batchSize:    cfg.UpsertBatchSize,
		txTimeout:    cfg.PushTxTimeout,
		defaultLimit: cfg.PullDefaultLimit,
		maxLimit:     cfg.PullMaxLimit,
	}
}

// Push applies p for userID in one transaction: workspaces, then folders,
// then notes, then deletions, then the success audit record. On failure
// nothing is applied, a failure record is written outside the transaction
// and the original error is returned.
func (s *SyncService) Push(ctx context.Context, userID string, p models.PushPayload) error {
	workspaces := effectiveWorkspaces(p.Workspaces)

	notesCount, foldersCount, workspacesCount := len(p.Notes), len(p.Folders), len(workspaces)
	record := models.SyncAuditRecord{
		UserID:          userID,
		Direction:       models.DirectionPush,
		NotesCount:      &notesCount,
		FoldersCount:    &foldersCount,
		WorkspacesCount: &workspacesCount,
	}

	err := dbx.WithTxTimeout(ctx, s.db, s.txTimeout, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.upsertWorkspaces(ctx, tx, userID, workspaces); err != nil {
			return err
		}
		if err := s.upsertFolders(ctx, tx, userID, p.Folders); err != nil {
			return err
		}
		if err := s.upsertNotes(ctx, tx, userID, p.Notes); err != nil {
			return err
		}

		keep := keepLists{
			notes:      clientIDs(p.Notes, func(n models.Note) string { return n.ClientID }),
			folders:    clientIDs(p.Folders, func(f models.Folder) string { return f.ClientID }),
			workspaces: clientIDs(workspaces, func(w models.Workspace) string { return w.ClientID }),
		}
		if err := s.reconcile(ctx, tx, userID, p.Deletion, keep); err != nil {
			return err
		}

		ok := record
		ok.Succeeded = true
		if err := s.repomanager.SyncLogs(tx).Create(ctx, ok); err != nil {
			return fmt.Errorf("record push: %w", err)
		}
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, record, err)
		return err
	}

	s.logger.Info(ctx, "push applied",
		"user_id", userID, "notes", notesCount, "folders", foldersCount, "workspaces", workspacesCount)
	return nil
}

// Pull returns one page of notes. The first page (no cursor) also carries
// every folder and workspace, the tombstones newer than req.Since, and is
// audited. Later pages carry notes only and are not audited.
func (s *SyncService) Pull(ctx context.Context, userID string, req models.PullRequest) (models.PullResult, error) {
	limit := s.clampLimit(req)

	if req.Cursor != nil {
		page, err := s.repomanager.Notes(s.db).Page(ctx, userID, limit, req.Cursor)
		if err != nil {
			return models.PullResult{}, fmt.Errorf("notes page: %w", err)
		}
		return models.PullResult{
			Notes:      page.Notes,
			Folders:    []models.Folder{},
			Workspaces: []models.Workspace{},
			NextCursor: page.Next,
		}, nil
	}

	record := models.SyncAuditRecord{UserID: userID, Direction: models.DirectionPull}

	res, err := s.firstPage(ctx, userID, limit, req.Since)
	if err == nil {
		ok := record
		ok.Succeeded = true
		ok.NotesCount = ptr(len(res.Notes))
		ok.FoldersCount = ptr(len(res.Folders))
		ok.WorkspacesCount = ptr(len(res.Workspaces))
		if auditErr := s.repomanager.SyncLogs(s.db).Create(ctx, ok); auditErr != nil {
			err = fmt.Errorf("record pull: %w", auditErr)
		}
	}
	if err != nil {
		s.recordFailure(ctx, record, err)
		return models.PullResult{}, err
	}

	return res, nil
}

func (s *SyncService) firstPage(ctx context.Context, userID string, limit int, since int64) (models.PullResult, error) {
	var (
		res  models.PullResult
		page models.NotesPage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.repomanager.Notes(s.db).Page(gctx, userID, limit, nil)
		if err != nil {
			return fmt.Errorf("notes page: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		res.Folders, err = s.repomanager.Folders(s.db).ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("list folders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		res.Workspaces, err = s.repomanager.Workspaces(s.db).ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("list workspaces: %w", err)
		}
		return nil
	})
	if since > 0 {
		g.Go(func() error {
			var err error
			res.Deleted, err = s.repomanager.Tombstones(s.db).FindSince(gctx, userID, time.UnixMilli(since))
			if err != nil {
				return fmt.Errorf("tombstones: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.PullResult{}, err
	}

	res.Notes = page.Notes
	res.NextCursor = page.Next
	return res, nil
}

// Status returns the time of the user's latest sync activity in epoch
// milliseconds, or 0 when there is none.
func (s *SyncService) Status(ctx context.Context, userID string) (int64, error) {
	at, ok, err := s.repomanager.SyncLogs(s.db).LastActivityAt(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("last activity: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return at.UnixMilli(), nil
}

// Tombstones lists the raw deletion log of userID after since.
func (s *SyncService) Tombstones(ctx context.Context, userID string, since time.Time) ([]models.Tombstone, error) {
	return s.repomanager.Tombstones(s.db).ListSince(ctx, userID, since)
}

// recordFailure writes a failure audit record outside any transaction. It
// survives cancellation of ctx; its own errors are only logged.
func (s *SyncService) recordFailure(ctx context.Context, rec models.SyncAuditRecord, cause error) {
	msg := cause.Error()
	rec.Succeeded = false
	rec.ErrorMessage = &msg

	ctx = context.WithoutCancel(ctx)
	if err := s.repomanager.SyncLogs(s.db).Create(ctx, rec); err != nil {
		s.logger.Error(ctx, "failed to record sync failure",
			"user_id", rec.UserID, "direction", string(rec.Direction), "cause", msg, "error", err)
		return
	}

	s.logger.Warn(ctx, "sync failed", "user_id", rec.UserID, "direction", string(rec.Direction), "error", msg)
}

func (s *SyncService) clampLimit(req models.PullRequest) int {
	limit := req.Limit.OrElse(s.defaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return limit
}

func ptr[T any](v T) *T { return &v }
