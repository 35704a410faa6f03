// Package server wires configuration, logging, storage and the sync engine
// together and runs the HTTP and gRPC endpoints until shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/notekeeper/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

type syncEngine interface {
	Push(ctx context.Context, userID string, p models.PushPayload) error
	Pull(ctx context.Context, userID string, req models.PullRequest) (models.PullResult, error)
	Status(ctx context.Context, userID string) (int64, error)
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	db        *sql.DB
	sync      syncEngine
}

// NewApp opens the database, applies pending migrations and builds the
// sync engine.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, closer, err := logging.New(logging.Options{
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSizeMB:  100,
		MaxBackups: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		_ = closer.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return &App{
		config:    c,
		logger:    logger,
		logCloser: closer,
		db:        db,
		sync:      services.NewSyncService(db, m, c, logger),
	}, nil
}

func (app *App) httpHandler() http.Handler {
	return httpapi.NewServer(app.sync, httpapi.Options{
		SecretKey:    []byte(app.config.SecretKey),
		RequirePro:   app.config.RequirePro,
		MaxBodyBytes: app.config.MaxBodyBytes,
	}, app.logger).Handler()
}

// serveHTTP serves the API on lis until ctx is done, then shuts down
// gracefully.
func (app *App) serveHTTP(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           app.httpHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		app.logger.Info(ctx, "Stopping HTTP server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves HTTP, and gRPC unless its address is empty, until
// SIGINT/SIGTERM/SIGQUIT or until either endpoint fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lis, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
		if err != nil {
			return fmt.Errorf("http listen: %w", err)
		}
		return app.serveHTTP(gctx, lis)
	})
	if app.config.EndpointAddrGRPC == "" {
		app.logger.Info(ctx, "gRPC endpoint disabled")
	} else {
		g.Go(func() error {
			s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.sync, app.config.SecretKey, app.config.RequirePro, int(app.config.MaxBodyBytes))
			if err := s.Run(gctx); err != nil {
				return fmt.Errorf("grpc: %w", err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}
	return err
}

// Close releases the database pool and the log file.
func (app *App) Close() error {
	var errs []error
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	if app.logCloser != nil {
		errs = append(errs, app.logCloser.Close())
	}
	return errors.Join(errs...)
}
