// Package httpapi exposes the sync engine over HTTP:
//
//	POST /sync          apply a push (204)
//	GET  /sync          pull a page
//	GET  /sync/status   last sync activity
//	GET  /healthz       liveness, unauthenticated
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// SyncService is the engine surface the handlers call.
type SyncService interface {
	Push(ctx context.Context, userID string, p models.PushPayload) error
	Pull(ctx context.Context, userID string, req models.PullRequest) (models.PullResult, error)
	Status(ctx context.Context, userID string) (int64, error)
}

type Options struct {
	SecretKey    []byte
	RequirePro   bool
	MaxBodyBytes int64
}

type Server struct {
	sync   SyncService
	opts   Options
	logger logging.Logger
}

func NewServer(s SyncService, opts Options, l logging.Logger) *Server {
	return &Server{sync: s, opts: opts, logger: l.With("module", "httpapi")}
}

// RegisterRoutes adds the API routes to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler {
		return s.authenticate(s.requireSync(h))
	}

	mux.Handle("POST /sync", authed(s.limitBody(s.handlePush)))
	mux.Handle("GET /sync", authed(s.handlePull))
	mux.Handle("GET /sync/status", authed(s.handleStatus))
	mux.HandleFunc("GET /healthz", handleHealthz)
}

// Handler returns the complete API handler with request id and access log
// middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return withRequestID(s.accessLog(mux))
}
