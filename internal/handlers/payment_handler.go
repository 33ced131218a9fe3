package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/beerlog/backend/internal/ledger"
	"github.com/beerlog/backend/internal/middleware"
	"github.com/beerlog/backend/internal/models"
	"github.com/beerlog/backend/internal/repository"
	"github.com/beerlog/backend/internal/services"
)

// PaymentWorkflow is the payment service surface the handler needs.
type PaymentWorkflow interface {
	RecordPayment(ctx context.Context, actor models.Actor, in services.RecordPaymentInput) (int64, error)
	AllocatePayments(ctx context.Context, actor models.Actor, userID int64) (int64, error)
	Balance(ctx context.Context, userID int64) (ledger.Balance, error)
}

// PaymentHistory lists a user's payments with allocations.
type PaymentHistory interface {
	ListByUser(ctx context.Context, userID int64) ([]*repository.PaymentWithAllocations, error)
}

type PaymentHandler struct {
	Workflow PaymentWorkflow
	History  PaymentHistory
	Logger   *slog.Logger
}

type recordPaymentRequest struct {
	UserID      int64   `json:"user_id"`
	AmountCents int64   `json:"amount_cents"`
	Currency    string  `json:"currency"`
	Note        *string `json:"note,omitempty"`
}

// POST /api/v1/payments
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	var req recordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	paymentID, err := h.Workflow.RecordPayment(r.Context(), actor, services.RecordPaymentInput{
		UserID:      req.UserID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Note:        req.Note,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "payment_id": paymentID})
}

// POST /api/v1/payments/allocate
func (h *PaymentHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	var req struct {
		UserID int64 `json:"user_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	allocated, err := h.Workflow.AllocatePayments(r.Context(), actor, req.UserID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "allocated_cents": allocated})
}

// GET /api/v1/balance?user_id=
func (h *PaymentHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	userID := queryUserID(r, actor)
	if !actor.CanActFor(userID) {
		writeJSON(w, http.StatusForbidden, map[string]any{"ok": false, "error": "insufficient permissions"})
		return
	}
	balance, err := h.Workflow.Balance(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GET /api/v1/payments?user_id=
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "unauthorized"})
		return
	}
	userID := queryUserID(r, actor)
	if !actor.CanActFor(userID) {
		writeJSON(w, http.StatusForbidden, map[string]any{"ok": false, "error": "insufficient permissions"})
		return
	}
	payments, err := h.History.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	if payments == nil {
		payments = []*repository.PaymentWithAllocations{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

// queryUserID resolves the user_id query parameter, defaulting to the
// actor's own id when absent or malformed.
func queryUserID(r *http.Request, actor models.Actor) int64 {
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return actor.UserID
}
