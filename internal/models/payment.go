package models

import (
	"time"
)

// DefaultCurrency is applied when a payment is recorded without one.
const DefaultCurrency = "EUR"

// Payment is money paid on behalf of a user, to be allocated against
// their unpaid logs. Amount is immutable after creation; only the
// cached IsFullyAllocated flag is ever updated.
type Payment struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	AmountCents      int64     `json:"amount_cents"`
	Currency         string    `json:"currency"`
	Note             *string   `json:"note,omitempty"`
	RecordedByID     int64     `json:"recorded_by_id"`
	IsFullyAllocated bool      `json:"is_fully_allocated"`
	CreatedAt        time.Time `json:"created_at"`
}

// PaymentAllocation records that AmountCents of a payment were applied
// to a specific beer log's debt. Allocations are created only by the
// allocation sweep, inside its transaction, and are never mutated.
type PaymentAllocation struct {
	ID          int64     `json:"id"`
	PaymentID   int64     `json:"payment_id"`
	BeerLogID   int64     `json:"beer_log_id"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}
