package models

import (
	"time"
)

// Payment status values derived from a log's allocations.
const (
	LogStatusPaid    = "paid"
	LogStatusPartial = "partial"
	LogStatusUnpaid  = "unpaid"
)

// BeerLog is one user's consumption recorded for a calendar date.
// CostCentsAtTime is stamped from the beer price in effect when the log
// was created and never changes afterwards, even if quantity or date
// are edited later.
type BeerLog struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Date            time.Time `json:"date"`
	Quantity        int       `json:"quantity"`
	CostCentsAtTime int64     `json:"cost_cents_at_time"`
	IsPaidFor       bool      `json:"is_paid_for"`
	CreatedByID     int64     `json:"created_by_id"`
	UpdatedByID     int64     `json:"updated_by_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
