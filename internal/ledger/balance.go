package ledger

// Balance is the derived money position of one user. Net is positive
// when unused credit exceeds outstanding debt.
type Balance struct {
	CreditCents int64 `json:"credit_cents"`
	OwedCents   int64 `json:"owed_cents"`
	NetCents    int64 `json:"net_balance_cents"`
}

// PaymentCredit is a payment's amount with its allocated sum, as read
// for balance computation. Unlike CreditSource this covers every
// payment, including fully-allocated ones.
type PaymentCredit struct {
	PaymentID      int64
	AmountCents    int64
	AllocatedCents int64
}

// OwedCents sums the uncovered remainder of unpaid logs. The caller
// passes only logs not marked fully paid: the cached flag is
// authoritative for exclusion, so a log manually marked paid stays out
// even if its allocation sum is short of its cost.
func OwedCents(debts []DebtEntry) int64 {
	var owed int64
	for _, d := range debts {
		if r := d.RemainingCents(); r > 0 {
			owed += r
		}
	}
	return owed
}

// CreditCents sums the unallocated remainder of the user's payments.
func CreditCents(payments []PaymentCredit) int64 {
	var credit int64
	for _, p := range payments {
		if r := p.AmountCents - p.AllocatedCents; r > 0 {
			credit += r
		}
	}
	return credit
}

// ComputeBalance derives the full balance triple from ledger state.
// Pure and side-effect free: safe to call repeatedly and concurrently.
func ComputeBalance(debts []DebtEntry, payments []PaymentCredit) Balance {
	owed := OwedCents(debts)
	credit := CreditCents(payments)
	return Balance{
		CreditCents: credit,
		OwedCents:   owed,
		NetCents:    credit - owed,
	}
}
