package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/beerlog/backend/internal/middleware"
	"github.com/beerlog/backend/internal/services"
)

// Rankings is the ranking service surface the handler needs.
type Rankings interface {
	Rankings(ctx context.Context) ([]services.RankedUser, error)
	CurrentRank(ctx context.Context, userID int64) (int, bool, error)
}

type RankingHandler struct {
	Svc    Rankings
	Logger *slog.Logger
}

// GET /api/v1/rankings
func (h *RankingHandler) List(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.Svc.Rankings(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	if ranked == nil {
		ranked = []services.RankedUser{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rankings": ranked})
}

// GET /api/v1/rankings/me
func (h *RankingHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	rank, present, err := h.Svc.CurrentRank(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	if !present {
		writeJSON(w, http.StatusOK, map[string]any{"rank": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rank": rank})
}
