package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beerlog/backend/internal/ledger"
)

type AllocationRepo struct {
	pool *pgxpool.Pool
}

func NewAllocationRepo(pool *pgxpool.Pool) *AllocationRepo {
	return &AllocationRepo{pool: pool}
}

// CreateBatchTx persists the engine's allocations inside the sweep
// transaction. A batch keeps the insert a single round trip.
func (r *AllocationRepo) CreateBatchTx(ctx context.Context, tx pgx.Tx, allocs []ledger.Allocation) error {
	if len(allocs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range allocs {
		batch.Queue(`
			INSERT INTO payment_allocations (payment_id, beer_log_id, amount_cents)
			VALUES ($1, $2, $3)
		`, a.PaymentID, a.LogID, a.AmountCents)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range allocs {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return br.Close()
}
