package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beerlog/backend/internal/ledger"
	"github.com/beerlog/backend/internal/models"
)

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// CreateTx inserts the payment inside the sweep transaction.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx pgx.Tx, p *models.Payment) error {
	return tx.QueryRow(ctx, `
		INSERT INTO payments (user_id, amount_cents, currency, note, recorded_by_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, p.UserID, p.AmountCents, p.Currency, p.Note, p.RecordedByID).Scan(&p.ID, &p.CreatedAt)
}

// CreditSnapshotTx reads the user's not-fully-allocated payments with
// their remaining credit, oldest created first. Rows with nothing left
// are filtered by the engine, not here, so a stale cached flag cannot
// inflate the sweep.
func (r *PaymentRepo) CreditSnapshotTx(ctx context.Context, tx pgx.Tx, userID int64) ([]ledger.CreditSource, error) {
	rows, err := tx.Query(ctx, `
		SELECT p.id, p.created_at, p.amount_cents - COALESCE(SUM(pa.amount_cents), 0)
		FROM payments p
		LEFT JOIN payment_allocations pa ON pa.payment_id = p.id
		WHERE p.user_id = $1 AND p.is_fully_allocated = FALSE
		GROUP BY p.id
		ORDER BY p.created_at ASC, p.id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var credits []ledger.CreditSource
	for rows.Next() {
		var c ledger.CreditSource
		if err := rows.Scan(&c.PaymentID, &c.CreatedAt, &c.RemainingCents); err != nil {
			return nil, err
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}

// Credits reads every payment of the user with its allocated sum, for
// balance computation.
func (r *PaymentRepo) Credits(ctx context.Context, userID int64) ([]ledger.PaymentCredit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.amount_cents, COALESCE(SUM(pa.amount_cents), 0)
		FROM payments p
		LEFT JOIN payment_allocations pa ON pa.payment_id = p.id
		WHERE p.user_id = $1
		GROUP BY p.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var credits []ledger.PaymentCredit
	for rows.Next() {
		var c ledger.PaymentCredit
		if err := rows.Scan(&c.PaymentID, &c.AmountCents, &c.AllocatedCents); err != nil {
			return nil, err
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}

// AllocatedSumTx recomputes the allocated total for one payment inside
// the sweep transaction.
func (r *PaymentRepo) AllocatedSumTx(ctx context.Context, tx pgx.Tx, paymentID int64) (int64, error) {
	var sum int64
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM payment_allocations WHERE payment_id = $1
	`, paymentID).Scan(&sum)
	return sum, err
}

func (r *PaymentRepo) AmountCentsTx(ctx context.Context, tx pgx.Tx, paymentID int64) (int64, error) {
	var amount int64
	err := tx.QueryRow(ctx, `
		SELECT amount_cents FROM payments WHERE id = $1
	`, paymentID).Scan(&amount)
	return amount, err
}

func (r *PaymentRepo) SetFullyAllocatedTx(ctx context.Context, tx pgx.Tx, paymentID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE payments SET is_fully_allocated = TRUE WHERE id = $1
	`, paymentID)
	return err
}

// PaymentWithAllocations is one payment plus its allocations, for the
// payment history view.
type PaymentWithAllocations struct {
	models.Payment
	Allocations []models.PaymentAllocation `json:"allocations"`
}

// ListByUser returns the user's payments newest first, each with its
// allocations.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID int64) ([]*PaymentWithAllocations, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, amount_cents, currency, note, recorded_by_id, is_fully_allocated, created_at
		FROM payments WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*PaymentWithAllocations
	index := map[int64]*PaymentWithAllocations{}
	var ids []int64
	for rows.Next() {
		var p PaymentWithAllocations
		if err := rows.Scan(&p.ID, &p.UserID, &p.AmountCents, &p.Currency, &p.Note, &p.RecordedByID, &p.IsFullyAllocated, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &p)
		index[p.ID] = &p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	arows, err := r.pool.Query(ctx, `
		SELECT id, payment_id, beer_log_id, amount_cents, created_at
		FROM payment_allocations WHERE payment_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a models.PaymentAllocation
		if err := arows.Scan(&a.ID, &a.PaymentID, &a.BeerLogID, &a.AmountCents, &a.CreatedAt); err != nil {
			return nil, err
		}
		if p, ok := index[a.PaymentID]; ok {
			p.Allocations = append(p.Allocations, a)
		}
	}
	return list, arows.Err()
}
