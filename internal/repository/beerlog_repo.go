package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beerlog/backend/internal/ledger"
	"github.com/beerlog/backend/internal/models"
)

type BeerLogRepo struct {
	pool *pgxpool.Pool
}

func NewBeerLogRepo(pool *pgxpool.Pool) *BeerLogRepo {
	return &BeerLogRepo{pool: pool}
}

func (r *BeerLogRepo) Create(ctx context.Context, l *models.BeerLog) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO beer_logs (user_id, date, quantity, cost_cents_at_time, created_by_id, updated_by_id)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at, updated_at
	`, l.UserID, l.Date, l.Quantity, l.CostCentsAtTime, l.CreatedByID).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

// Update edits date and quantity only. cost_cents_at_time is frozen at
// creation and is deliberately absent from the SET list.
func (r *BeerLogRepo) Update(ctx context.Context, id, userID int64, date time.Time, quantity int, updatedByID int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE beer_logs SET date = $3, quantity = $4, updated_by_id = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, id, userID, date, quantity, updatedByID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BeerLogRepo) GetByID(ctx context.Context, id int64) (*models.BeerLog, error) {
	var l models.BeerLog
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, date, quantity, cost_cents_at_time, is_paid_for, created_by_id, updated_by_id, created_at, updated_at
		FROM beer_logs WHERE id = $1
	`, id).Scan(&l.ID, &l.UserID, &l.Date, &l.Quantity, &l.CostCentsAtTime, &l.IsPaidFor, &l.CreatedByID, &l.UpdatedByID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// LogWithStatus is a beer log plus its allocated sum and derived status,
// for dashboard listings.
type LogWithStatus struct {
	models.BeerLog
	AllocatedCents int64  `json:"allocated_cents"`
	Status         string `json:"status"`
}

func (r *BeerLogRepo) ListByUser(ctx context.Context, userID int64) ([]*LogWithStatus, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT bl.id, bl.user_id, bl.date, bl.quantity, bl.cost_cents_at_time, bl.is_paid_for,
		       bl.created_by_id, bl.updated_by_id, bl.created_at, bl.updated_at,
		       COALESCE(SUM(pa.amount_cents), 0)
		FROM beer_logs bl
		LEFT JOIN payment_allocations pa ON pa.beer_log_id = bl.id
		WHERE bl.user_id = $1
		GROUP BY bl.id
		ORDER BY bl.date DESC, bl.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*LogWithStatus
	for rows.Next() {
		var l LogWithStatus
		if err := rows.Scan(&l.ID, &l.UserID, &l.Date, &l.Quantity, &l.CostCentsAtTime, &l.IsPaidFor,
			&l.CreatedByID, &l.UpdatedByID, &l.CreatedAt, &l.UpdatedAt, &l.AllocatedCents); err != nil {
			return nil, err
		}
		l.Status = ledger.PaymentStatus(l.CostCentsAtTime, l.IsPaidFor, l.AllocatedCents)
		list = append(list, &l)
	}
	return list, rows.Err()
}

const unpaidDebtsQuery = `
	SELECT bl.id, bl.date, bl.cost_cents_at_time, COALESCE(SUM(pa.amount_cents), 0)
	FROM beer_logs bl
	LEFT JOIN payment_allocations pa ON pa.beer_log_id = bl.id
	WHERE bl.user_id = $1 AND bl.is_paid_for = FALSE
	GROUP BY bl.id
	ORDER BY bl.date ASC, bl.id ASC
`

func scanDebts(rows pgx.Rows) ([]ledger.DebtEntry, error) {
	defer rows.Close()
	var debts []ledger.DebtEntry
	for rows.Next() {
		var d ledger.DebtEntry
		if err := rows.Scan(&d.LogID, &d.Date, &d.CostCents, &d.AllocatedCents); err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// UnpaidDebts reads the user's not-fully-paid logs with their allocated
// sums, oldest date first. Used by the balance read path.
func (r *BeerLogRepo) UnpaidDebts(ctx context.Context, userID int64) ([]ledger.DebtEntry, error) {
	rows, err := r.pool.Query(ctx, unpaidDebtsQuery, userID)
	if err != nil {
		return nil, err
	}
	return scanDebts(rows)
}

// UnpaidDebtsTx is the same snapshot read inside the sweep transaction.
func (r *BeerLogRepo) UnpaidDebtsTx(ctx context.Context, tx pgx.Tx, userID int64) ([]ledger.DebtEntry, error) {
	rows, err := tx.Query(ctx, unpaidDebtsQuery, userID)
	if err != nil {
		return nil, err
	}
	return scanDebts(rows)
}

// AllocatedSumTx recomputes the allocated total for one log inside the
// sweep transaction.
func (r *BeerLogRepo) AllocatedSumTx(ctx context.Context, tx pgx.Tx, logID int64) (int64, error) {
	var sum int64
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM payment_allocations WHERE beer_log_id = $1
	`, logID).Scan(&sum)
	return sum, err
}

func (r *BeerLogRepo) CostCentsTx(ctx context.Context, tx pgx.Tx, logID int64) (int64, error) {
	var cost int64
	err := tx.QueryRow(ctx, `
		SELECT cost_cents_at_time FROM beer_logs WHERE id = $1
	`, logID).Scan(&cost)
	return cost, err
}

func (r *BeerLogRepo) SetPaidForTx(ctx context.Context, tx pgx.Tx, logID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE beer_logs SET is_paid_for = TRUE, updated_at = now() WHERE id = $1
	`, logID)
	return err
}

// UserQuantity is a grouped monthly consumption total for ranking.
type UserQuantity struct {
	UserID   int64
	Quantity int
}

// QuantitiesSince groups quantity by user for logs dated on/after the
// given day, highest total first, user id as the stable tie-break.
func (r *BeerLogRepo) QuantitiesSince(ctx context.Context, since time.Time) ([]UserQuantity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, SUM(quantity)
		FROM beer_logs
		WHERE date >= $1
		GROUP BY user_id
		ORDER BY SUM(quantity) DESC, user_id ASC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []UserQuantity
	for rows.Next() {
		var q UserQuantity
		if err := rows.Scan(&q.UserID, &q.Quantity); err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}
