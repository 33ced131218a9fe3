package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/beerlog/backend/internal/middleware"
	"github.com/beerlog/backend/internal/models"
	"github.com/beerlog/backend/internal/repository"
	"github.com/beerlog/backend/internal/services"
)

// dateLayout is the wire format for log dates (day granularity).
const dateLayout = "2006-01-02"

// LogWorkflow is the beer-log service surface the handler needs.
type LogWorkflow interface {
	SaveLog(ctx context.Context, actor models.Actor, in services.SaveLogInput) (int64, error)
	Logs(ctx context.Context, actor models.Actor, userID int64) ([]*repository.LogWithStatus, error)
}

type LogHandler struct {
	Workflow LogWorkflow
	Logger   *slog.Logger
}

type saveLogRequest struct {
	UserID   int64  `json:"user_id"`
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
}

// POST /api/v1/logs and PUT /api/v1/logs/{id}
func (h *LogHandler) SaveLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	var req saveLogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var id int64
	if raw := r.PathValue("id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid log id"})
			return
		}
		id = parsed
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "errors": map[string][]string{"date": {"must be YYYY-MM-DD"}}})
			return
		}
		date = parsed
	}

	logID, err := h.Workflow.SaveLog(r.Context(), actor, services.SaveLogInput{
		ID:       id,
		UserID:   req.UserID,
		Date:     date,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"ok": true, "log_id": logID})
}

// GET /api/v1/logs?user_id=
func (h *LogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	userID := queryUserID(r, actor)
	logs, err := h.Workflow.Logs(r.Context(), actor, userID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	if logs == nil {
		logs = []*repository.LogWithStatus{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}
