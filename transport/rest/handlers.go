package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
)

const healthTimeout = 2 * time.Second

type pushTargetRequest struct {
	Token string `json:"token"`
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Warn("failed to write response", "method", "handlePing", "error", err)
	}
}

// handleHealth - reports whether the push directory backend answers.
func (that *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := that.directory.Ping(ctx); err != nil {
		that.logger.Warn("directory is unreachable", "method", "handleHealth", "error", err)
		that.writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable", Error: err.Error()})

		return
	}

	that.writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (that *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.rooms.RoomSnapshot(chi.URLParam(r, "roomID"))
	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.writeJSON(w, http.StatusNotFound, statusResponse{Status: "not found"})
		return
	}

	if err != nil {
		that.logger.Error("failed to read room", "method", "handleRoom", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error"})

		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) handlePushTarget(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePushTarget")

	userID := chi.URLParam(r, "userID")

	var req pushTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		that.writeJSON(w, http.StatusBadRequest, statusResponse{Status: "bad request", Error: "token is required"})
		return
	}

	if err := that.directory.RegisterPushTarget(r.Context(), userID, req.Token); err != nil {
		log.Error("failed to register push target", "userID", userID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error"})

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Warn("failed to write response", "error", err)
	}
}
