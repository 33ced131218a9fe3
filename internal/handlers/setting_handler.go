package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/beerlog/backend/internal/middleware"
	"github.com/beerlog/backend/internal/models"
)

// PriceStore reads and writes the beer price setting.
type PriceStore interface {
	BeerPriceCents(ctx context.Context) (int64, error)
	SetBeerPriceCents(ctx context.Context, cents int64) error
}

type SettingHandler struct {
	Settings PriceStore
	Logger   *slog.Logger
}

// GET /api/v1/settings/beer-price
func (h *SettingHandler) GetBeerPrice(w http.ResponseWriter, r *http.Request) {
	price, err := h.Settings.BeerPriceCents(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"beer_price_cents": price})
}

// PUT /api/v1/settings/beer-price — admin only. Changing the price only
// affects logs created afterwards; existing entries keep their stamped
// cost.
func (h *SettingHandler) SetBeerPrice(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	if actor.Role != models.RoleAdmin {
		writeJSON(w, http.StatusForbidden, map[string]any{"ok": false, "error": "insufficient permissions"})
		return
	}
	var req struct {
		BeerPriceCents int64 `json:"beer_price_cents"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BeerPriceCents <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "errors": map[string][]string{"beer_price_cents": {"must be a positive integer"}}})
		return
	}
	if err := h.Settings.SetBeerPriceCents(r.Context(), req.BeerPriceCents); err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
