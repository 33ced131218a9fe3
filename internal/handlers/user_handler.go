package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/beerlog/backend/internal/ledger"
	"github.com/beerlog/backend/internal/middleware"
	"github.com/beerlog/backend/internal/models"
)

// UserDirectory lists users for the manager/admin directory view.
type UserDirectory interface {
	List(ctx context.Context) ([]*models.User, error)
}

// BalanceReader derives one user's balance triple.
type BalanceReader interface {
	Balance(ctx context.Context, userID int64) (ledger.Balance, error)
}

type UserHandler struct {
	Users    UserDirectory
	Balances BalanceReader
	Logger   *slog.Logger
}

type userWithBalance struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      string         `json:"role"`
	Approved  bool           `json:"approved"`
	Balance   ledger.Balance `json:"balance"`
}

// GET /api/v1/users — the directory with per-user balances.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	if !models.IsManagerOrAdmin(actor.Role) {
		writeJSON(w, http.StatusForbidden, map[string]any{"ok": false, "error": "insufficient permissions"})
		return
	}
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	out := make([]userWithBalance, 0, len(users))
	for _, u := range users {
		balance, err := h.Balances.Balance(r.Context(), u.ID)
		if err != nil {
			writeServiceError(w, h.Logger, err)
			return
		}
		out = append(out, userWithBalance{
			ID:       u.ID,
			Name:     u.DisplayName(),
			Email:    u.Email,
			Role:     u.Role,
			Approved: u.Approved,
			Balance:  balance,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}
