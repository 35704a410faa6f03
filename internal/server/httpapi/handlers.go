package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/optional"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/dto"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req dto.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: malformed body: %v", common.ErrValidation, err))
		return
	}

	payload, err := req.ToModel()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.sync.Push(ctx, userID, payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := pullRequestFromQuery(r).ToModel()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.sync.Pull(ctx, userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPullResponse(res))
}

// pullRequestFromQuery reads limit, cursor and since. A non-numeric limit
// falls back to the default and a non-numeric since is ignored.
func pullRequestFromQuery(r *http.Request) dto.PullRequest {
	q := r.URL.Query()
	req := dto.PullRequest{Cursor: q.Get("cursor")}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = optional.Some(n)
		}
	}
	if v := q.Get("since"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.Since = n
		}
	}
	return req
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	at, err := s.sync.Status(ctx, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{LastUpdatedAt: at})
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// statusFor maps an error onto the HTTP status and the message shown to
// the client. Unknown errors are reported as a bare internal error.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidCursor):
		return http.StatusBadRequest, common.ErrInvalidCursor.Error()
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, common.ErrTokenExpired.Error()
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, common.ErrorUnauthorized.Error()
	case errors.Is(err, common.ErrSyncNotAllowed):
		return http.StatusPaymentRequired, common.ErrSyncNotAllowed.Error()
	default:
		return http.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug(r.Context(), "request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
