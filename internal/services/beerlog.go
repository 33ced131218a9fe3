package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/beerlog/backend/internal/metrics"
	"github.com/beerlog/backend/internal/models"
	"github.com/beerlog/backend/internal/repository"
)

// BeerLogStore is the beer-log repository surface the log service needs.
type BeerLogStore interface {
	Create(ctx context.Context, l *models.BeerLog) error
	Update(ctx context.Context, id, userID int64, date time.Time, quantity int, updatedByID int64) error
	ListByUser(ctx context.Context, userID int64) ([]*repository.LogWithStatus, error)
}

// PriceSource resolves the beer price in effect right now.
type PriceSource interface {
	BeerPriceCents(ctx context.Context) (int64, error)
}

// BeerLogService records and edits consumption entries. The price used
// to stamp cost_cents_at_time is read at call time and frozen onto the
// entry; later edits and price changes never touch it.
type BeerLogService struct {
	logs     BeerLogStore
	settings PriceSource
	log      *slog.Logger
}

func NewBeerLogService(logs BeerLogStore, settings PriceSource, log *slog.Logger) *BeerLogService {
	if log == nil {
		log = slog.Default()
	}
	return &BeerLogService{logs: logs, settings: settings, log: log}
}

// SaveLogInput is the validated payload for SaveLog. A zero ID creates;
// a non-zero ID edits date and quantity of an existing entry.
type SaveLogInput struct {
	ID       int64
	UserID   int64
	Date     time.Time
	Quantity int
}

func (in *SaveLogInput) validate() *ValidationError {
	fields := map[string][]string{}
	if in.UserID <= 0 {
		fields["user_id"] = append(fields["user_id"], "must be a positive integer")
	}
	if in.Quantity <= 0 {
		fields["quantity"] = append(fields["quantity"], "must be a positive integer")
	}
	if in.Date.IsZero() {
		fields["date"] = append(fields["date"], "is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// SaveLog creates or updates a beer log. Plain users may only write
// their own entries; managers and admins may write for anyone.
func (s *BeerLogService) SaveLog(ctx context.Context, actor models.Actor, in SaveLogInput) (int64, error) {
	// Plain users always log against themselves, whatever the form said.
	if !models.IsManagerOrAdmin(actor.Role) {
		in.UserID = actor.UserID
	}
	if verr := in.validate(); verr != nil {
		return 0, verr
	}

	if in.ID != 0 {
		if err := s.logs.Update(ctx, in.ID, in.UserID, in.Date, in.Quantity, actor.UserID); err != nil {
			return 0, err
		}
		return in.ID, nil
	}

	price, err := s.settings.BeerPriceCents(ctx)
	if err != nil {
		return 0, err
	}
	l := &models.BeerLog{
		UserID:          in.UserID,
		Date:            in.Date,
		Quantity:        in.Quantity,
		CostCentsAtTime: int64(in.Quantity) * price,
		CreatedByID:     actor.UserID,
	}
	if err := s.logs.Create(ctx, l); err != nil {
		return 0, err
	}
	metrics.LogsRecorded.Inc()
	return l.ID, nil
}

// Logs lists a user's entries with their payment status, newest first.
func (s *BeerLogService) Logs(ctx context.Context, actor models.Actor, userID int64) ([]*repository.LogWithStatus, error) {
	if !actor.CanActFor(userID) {
		return nil, ErrPermission
	}
	return s.logs.ListByUser(ctx, userID)
}
