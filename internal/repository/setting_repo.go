package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beerlog/backend/internal/models"
)

type SettingRepo struct {
	pool *pgxpool.Pool
}

func NewSettingRepo(pool *pgxpool.Pool) *SettingRepo {
	return &SettingRepo{pool: pool}
}

// BeerPriceCents resolves the current price per beer. Missing or broken
// rows fall back to the default rather than failing log creation.
func (r *SettingRepo) BeerPriceCents(ctx context.Context) (int64, error) {
	var value string
	err := r.pool.QueryRow(ctx, `
		SELECT value FROM settings WHERE key = $1
	`, models.SettingBeerPriceCents).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DefaultBeerPriceCents, nil
		}
		return 0, err
	}
	cents, err := strconv.ParseInt(value, 10, 64)
	if err != nil || cents <= 0 {
		return models.DefaultBeerPriceCents, nil
	}
	return cents, nil
}

func (r *SettingRepo) SetBeerPriceCents(ctx context.Context, cents int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, models.SettingBeerPriceCents, strconv.FormatInt(cents, 10))
	return err
}
