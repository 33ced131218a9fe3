package ledger

import (
	"sort"
	"time"
)

// CreditSource is a snapshot of one payment's unused credit at the start
// of a sweep. RemainingCents is amount minus already-allocated sum.
type CreditSource struct {
	PaymentID      int64
	CreatedAt      time.Time
	RemainingCents int64
}

// DebtEntry is a snapshot of one unpaid beer log at the start of a sweep.
type DebtEntry struct {
	LogID           int64
	Date            time.Time
	CostCents       int64
	AllocatedCents  int64
}

// RemainingCents is the part of the log's cost no payment has covered yet.
func (d DebtEntry) RemainingCents() int64 {
	return d.CostCents - d.AllocatedCents
}

// Allocation is one engine decision: AmountCents of PaymentID applied to LogID.
type Allocation struct {
	LogID       int64
	PaymentID   int64
	AmountCents int64
}

// ApplyCredits reconciles unused payment credit against unpaid log debt
// and returns the allocations to persist plus the total credit consumed.
//
// It is a pure function over the snapshot the caller read: nothing is
// persisted and no flags are touched here. The caller owns the
// transactional boundary around reading the snapshot and writing the
// result.
//
// Ordering is part of the contract: the oldest payment's leftover credit
// is spent first (created-at ascending), and the oldest unpaid day is
// settled first (date ascending). Ids break ties so the result is
// deterministic regardless of input order. A single run never emits a
// zero or negative amount and never emits two allocations for the same
// (payment, log) pair.
func ApplyCredits(credits []CreditSource, debts []DebtEntry) ([]Allocation, int64) {
	cs := make([]CreditSource, 0, len(credits))
	for _, c := range credits {
		if c.RemainingCents > 0 {
			cs = append(cs, c)
		}
	}
	if len(cs) == 0 {
		return nil, 0
	}
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.Before(cs[j].CreatedAt)
		}
		return cs[i].PaymentID < cs[j].PaymentID
	})

	ds := make([]DebtEntry, 0, len(debts))
	for _, d := range debts {
		if d.RemainingCents() > 0 {
			ds = append(ds, d)
		}
	}
	sort.SliceStable(ds, func(i, j int) bool {
		if !ds[i].Date.Equal(ds[j].Date) {
			return ds[i].Date.Before(ds[j].Date)
		}
		return ds[i].LogID < ds[j].LogID
	})

	var allocs []Allocation
	var used int64
	next := 0 // index of the oldest credit with anything left
	for _, d := range ds {
		remaining := d.RemainingCents()
		for next < len(cs) && remaining > 0 {
			c := &cs[next]
			if c.RemainingCents <= 0 {
				next++
				continue
			}
			amount := min(c.RemainingCents, remaining)
			allocs = append(allocs, Allocation{
				LogID:       d.LogID,
				PaymentID:   c.PaymentID,
				AmountCents: amount,
			})
			c.RemainingCents -= amount
			remaining -= amount
			used += amount
		}
		if next >= len(cs) {
			break
		}
	}
	return allocs, used
}
