package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/beerlog/backend/internal/ledger"
	"github.com/beerlog/backend/internal/metrics"
	"github.com/beerlog/backend/internal/models"
)

// advisoryLockClass namespaces this application's pg_advisory_xact_lock
// calls (second argument is the user id).
const advisoryLockClass = 7453

var (
	// ErrPermission is returned when the actor lacks the manager/admin
	// capability required for a ledger-mutating operation.
	ErrPermission = errors.New("insufficient permissions")

	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError carries field-level problems detected before any
// mutation, so callers can render feedback next to the offending input.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PaymentStore is the payment repository surface the workflow needs.
type PaymentStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, p *models.Payment) error
	CreditSnapshotTx(ctx context.Context, tx pgx.Tx, userID int64) ([]ledger.CreditSource, error)
	Credits(ctx context.Context, userID int64) ([]ledger.PaymentCredit, error)
	AllocatedSumTx(ctx context.Context, tx pgx.Tx, paymentID int64) (int64, error)
	AmountCentsTx(ctx context.Context, tx pgx.Tx, paymentID int64) (int64, error)
	SetFullyAllocatedTx(ctx context.Context, tx pgx.Tx, paymentID int64) error
}

// LogStore is the beer-log repository surface the workflow needs.
type LogStore interface {
	UnpaidDebts(ctx context.Context, userID int64) ([]ledger.DebtEntry, error)
	UnpaidDebtsTx(ctx context.Context, tx pgx.Tx, userID int64) ([]ledger.DebtEntry, error)
	AllocatedSumTx(ctx context.Context, tx pgx.Tx, logID int64) (int64, error)
	CostCentsTx(ctx context.Context, tx pgx.Tx, logID int64) (int64, error)
	SetPaidForTx(ctx context.Context, tx pgx.Tx, logID int64) error
}

// AllocationStore persists engine output.
type AllocationStore interface {
	CreateBatchTx(ctx context.Context, tx pgx.Tx, allocs []ledger.Allocation) error
}

// UserChecker verifies the target user exists before any mutation.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// PaymentService orchestrates payment recording and the allocation
// sweep. Every mutating call runs in one transaction holding a per-user
// advisory lock, so concurrent sweeps for the same user serialize
// instead of double-allocating the same credit.
type PaymentService struct {
	pool        TxBeginner
	payments    PaymentStore
	logs        LogStore
	allocations AllocationStore
	users       UserChecker
	log         *slog.Logger
}

func NewPaymentService(pool TxBeginner, payments PaymentStore, logs LogStore, allocations AllocationStore, users UserChecker, log *slog.Logger) *PaymentService {
	if log == nil {
		log = slog.Default()
	}
	return &PaymentService{
		pool:        pool,
		payments:    payments,
		logs:        logs,
		allocations: allocations,
		users:       users,
		log:         log,
	}
}

// RecordPaymentInput is the validated payload for RecordPayment.
type RecordPaymentInput struct {
	UserID      int64
	AmountCents int64
	Currency    string
	Note        *string
}

func (in *RecordPaymentInput) validate() *ValidationError {
	fields := map[string][]string{}
	if in.UserID <= 0 {
		fields["user_id"] = append(fields["user_id"], "must be a positive integer")
	}
	if in.AmountCents <= 0 {
		fields["amount_cents"] = append(fields["amount_cents"], "must be a positive integer")
	}
	if in.Currency == "" {
		in.Currency = models.DefaultCurrency
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// RecordPayment persists a payment for the target user and sweeps any
// pre-existing unallocated credit against outstanding debt. The new
// payment's own credit is not spent in this pass: the snapshot is read
// before the insert, so repeated invocations converge to full
// allocation. Returns the new payment's id.
func (s *PaymentService) RecordPayment(ctx context.Context, actor models.Actor, in RecordPaymentInput) (int64, error) {
	if !models.IsManagerOrAdmin(actor.Role) {
		return 0, ErrPermission
	}
	if verr := in.validate(); verr != nil {
		return 0, verr
	}
	exists, err := s.users.Exists(ctx, in.UserID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrUserNotFound
	}

	var paymentID int64
	err = s.inTx(ctx, in.UserID, func(tx pgx.Tx) error {
		credits, err := s.payments.CreditSnapshotTx(ctx, tx, in.UserID)
		if err != nil {
			return err
		}

		p := &models.Payment{
			UserID:       in.UserID,
			AmountCents:  in.AmountCents,
			Currency:     in.Currency,
			Note:         in.Note,
			RecordedByID: actor.UserID,
		}
		if err := s.payments.CreateTx(ctx, tx, p); err != nil {
			return err
		}
		paymentID = p.ID

		_, err = s.sweep(ctx, tx, in.UserID, credits)
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.PaymentsRecorded.Inc()
	return paymentID, nil
}

// AllocatePayments runs the sweep alone, without recording a payment.
// Returns the total newly allocated cents; a second call with no
// intervening ledger change returns zero.
func (s *PaymentService) AllocatePayments(ctx context.Context, actor models.Actor, userID int64) (int64, error) {
	if !models.IsManagerOrAdmin(actor.Role) {
		return 0, ErrPermission
	}
	if userID <= 0 {
		return 0, &ValidationError{Fields: map[string][]string{"user_id": {"must be a positive integer"}}}
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrUserNotFound
	}

	var allocated int64
	err = s.inTx(ctx, userID, func(tx pgx.Tx) error {
		credits, err := s.payments.CreditSnapshotTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		allocated, err = s.sweep(ctx, tx, userID, credits)
		return err
	})
	if err != nil {
		return 0, err
	}
	return allocated, nil
}

// Balance derives the user's credit, owed and net amounts from current
// ledger state. Read-only; no locks.
func (s *PaymentService) Balance(ctx context.Context, userID int64) (ledger.Balance, error) {
	debts, err := s.logs.UnpaidDebts(ctx, userID)
	if err != nil {
		return ledger.Balance{}, err
	}
	credits, err := s.payments.Credits(ctx, userID)
	if err != nil {
		return ledger.Balance{}, err
	}
	return ledger.ComputeBalance(debts, credits), nil
}

// inTx runs fn in one transaction with the per-user advisory lock held.
func (s *PaymentService) inTx(ctx context.Context, userID int64, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, advisoryLockClass, int32(userID)); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// sweep applies the given credit snapshot to the user's outstanding
// debt, persists the allocations and recomputes the cached flags of
// every touched payment and log.
func (s *PaymentService) sweep(ctx context.Context, tx pgx.Tx, userID int64, credits []ledger.CreditSource) (int64, error) {
	debts, err := s.logs.UnpaidDebtsTx(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	allocs, used := ledger.ApplyCredits(credits, debts)
	if len(allocs) == 0 {
		return 0, nil
	}
	if err := s.allocations.CreateBatchTx(ctx, tx, allocs); err != nil {
		return 0, err
	}

	touchedPayments := map[int64]bool{}
	touchedLogs := map[int64]bool{}
	for _, a := range allocs {
		touchedPayments[a.PaymentID] = true
		touchedLogs[a.LogID] = true
	}

	for paymentID := range touchedPayments {
		sum, err := s.payments.AllocatedSumTx(ctx, tx, paymentID)
		if err != nil {
			return 0, err
		}
		amount, err := s.payments.AmountCentsTx(ctx, tx, paymentID)
		if err != nil {
			return 0, err
		}
		if sum >= amount {
			if err := s.payments.SetFullyAllocatedTx(ctx, tx, paymentID); err != nil {
				return 0, err
			}
		}
	}

	for logID := range touchedLogs {
		sum, err := s.logs.AllocatedSumTx(ctx, tx, logID)
		if err != nil {
			return 0, err
		}
		cost, err := s.logs.CostCentsTx(ctx, tx, logID)
		if err != nil {
			return 0, err
		}
		if sum >= cost {
			if err := s.logs.SetPaidForTx(ctx, tx, logID); err != nil {
				return 0, err
			}
		}
	}

	metrics.AllocationsCreated.Add(float64(len(allocs)))
	metrics.CentsAllocated.Add(float64(used))
	s.log.Info("allocation sweep", "user_id", userID, "allocations", len(allocs), "cents", used)
	return used, nil
}
